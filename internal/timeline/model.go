package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTimecodes is returned when a frame-quantized operation runs on a
	// segment whose frame rate was never set.
	ErrNoTimecodes = errors.New("timecodes not computed")
	// ErrMissingTimestamp means a word reached segment construction without
	// repair.
	ErrMissingTimestamp = errors.New("word is missing a timestamp")
	ErrEmptySegment     = errors.New("segment has no words")
	ErrInvalidChunkSize = errors.New("words per segment must be positive")
	ErrMissingOffset    = errors.New("part has no offset")
)

// Word is a timestamped token inside a Segment.
type Word struct {
	Start       float64
	End         float64
	Text        string
	Score       *float64
	Highlighted bool
	Timecodes   *TimecodePair
}

// Segment is an ordered, non-empty run of words shown as one caption. Its
// timecodes derive from its own Start and End, never from its words.
type Segment struct {
	Start     float64
	End       float64
	Text      string
	Words     []Word
	FrameRate int
	Timecodes *TimecodePair
}

// builds a Segment from a repaired raw segment
func NewSegment(raw RawSegment) (Segment, error) {
	if len(raw.Words) == 0 {
		return Segment{}, ErrEmptySegment
	}

	words := make([]Word, len(raw.Words))
	for i, rw := range raw.Words {
		if rw.Start == nil || rw.End == nil {
			return Segment{}, fmt.Errorf("word %d (%q): %w", i, rw.Word, ErrMissingTimestamp)
		}
		words[i] = Word{
			Start: *rw.Start,
			End:   *rw.End,
			Text:  rw.Word,
			Score: copyFloat(rw.Score),
		}
	}

	return Segment{
		Start: raw.Start,
		End:   raw.End,
		Text:  raw.Text,
		Words: words,
	}, nil
}

// NewSegments repairs a copy of raws and builds segments from it. Segments
// without words are skipped.
func NewSegments(raws []RawSegment) ([]Segment, error) {
	repaired := Repair(raws)
	segs := make([]Segment, 0, len(repaired))
	for i, raw := range repaired {
		if len(raw.Words) == 0 {
			continue
		}
		seg, err := NewSegment(raw)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// SetFrameRate recomputes the timecodes of the segment and all of its words.
func (s *Segment) SetFrameRate(frameRate int) {
	s.FrameRate = frameRate
	s.Timecodes = newPair(s.Start, s.End, frameRate)
	for i := range s.Words {
		w := &s.Words[i]
		w.Timecodes = newPair(w.Start, w.End, frameRate)
	}
}

// ITTSpan returns the begin and end attributes for the segment.
func (s Segment) ITTSpan() (string, string, error) {
	if s.Timecodes == nil {
		return "", "", fmt.Errorf("segment %q: %w", s.Text, ErrNoTimecodes)
	}
	return s.Timecodes.Start.String(), s.Timecodes.End.String(), nil
}

func (w Word) Clone() Word {
	w.Score = copyFloat(w.Score)
	w.Timecodes = copyPair(w.Timecodes)
	return w
}

func (s Segment) Clone() Segment {
	s.Timecodes = copyPair(s.Timecodes)
	if s.Words != nil {
		words := make([]Word, len(s.Words))
		for i, w := range s.Words {
			words[i] = w.Clone()
		}
		s.Words = words
	}
	return s
}

// CloneSegments deep copies segs.
func CloneSegments(segs []Segment) []Segment {
	if segs == nil {
		return nil
	}
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[i] = s.Clone()
	}
	return out
}

// SetFrameRate returns a copy of segs with timecodes computed at frameRate.
func SetFrameRate(segs []Segment, frameRate int) []Segment {
	out := CloneSegments(segs)
	for i := range out {
		out[i].SetFrameRate(frameRate)
	}
	return out
}

// shift moves the segment and its words by offset seconds.
func (s *Segment) shift(offset float64) {
	s.Start += offset
	s.End += offset
	for i := range s.Words {
		s.Words[i].Start += offset
		s.Words[i].End += offset
	}
	if s.Timecodes != nil {
		s.SetFrameRate(s.FrameRate)
	}
}

func copyPair(p *TimecodePair) *TimecodePair {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
