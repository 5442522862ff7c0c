package timeline

import (
	"iter"
	"strings"
)

// Span is a run of cue text, optionally highlighted.
type Span struct {
	Text        string
	Highlighted bool
}

// Cue is one displayed subtitle unit, independent of output format.
type Cue struct {
	Start     float64
	End       float64
	Timecodes *TimecodePair
	Spans     []Span
}

// Text returns the cue text without markup.
func (c Cue) Text() string {
	parts := make([]string, len(c.Spans))
	for i, sp := range c.Spans {
		parts[i] = sp.Text
	}
	return strings.Join(parts, " ")
}

// HasHighlight reports whether any span is highlighted.
func (c Cue) HasHighlight() bool {
	for _, sp := range c.Spans {
		if sp.Highlighted {
			return true
		}
	}
	return false
}

// SegmentCues yields one cue per segment carrying the segment text.
func SegmentCues(segs []Segment) iter.Seq[Cue] {
	return func(yield func(Cue) bool) {
		for _, s := range segs {
			cue := Cue{
				Start:     s.Start,
				End:       s.End,
				Timecodes: copyPair(s.Timecodes),
				Spans:     []Span{{Text: strings.TrimSpace(s.Text)}},
			}
			if !yield(cue) {
				return
			}
		}
	}
}

// WordCues yields one cue per word. A word's cue runs until the next word
// starts; the last word of a segment runs until the segment ends.
func WordCues(segs []Segment) iter.Seq[Cue] {
	return func(yield func(Cue) bool) {
		for _, s := range segs {
			for i, w := range s.Words {
				cue := Cue{
					Start: w.Start,
					End:   wordCueEnd(s, i),
					Spans: []Span{{Text: w.Text}},
				}
				if !yield(cue) {
					return
				}
			}
		}
	}
}

// HighlightCues yields WordCues timing with the whole segment as text and
// the current word highlighted.
func HighlightCues(segs []Segment) iter.Seq[Cue] {
	return func(yield func(Cue) bool) {
		for _, s := range segs {
			for i, w := range s.Words {
				spans := make([]Span, len(s.Words))
				for j, other := range s.Words {
					spans[j] = Span{Text: other.Text, Highlighted: j == i}
				}
				cue := Cue{
					Start: w.Start,
					End:   wordCueEnd(s, i),
					Spans: spans,
				}
				if !yield(cue) {
					return
				}
			}
		}
	}
}

// ExpandedCues yields one cue per segment using the segment's own timing and
// timecodes and its words' highlight flags. It renders the output of
// ExpandAll and CloseGaps.
func ExpandedCues(segs []Segment) iter.Seq[Cue] {
	return func(yield func(Cue) bool) {
		for _, s := range segs {
			spans := make([]Span, len(s.Words))
			for j, w := range s.Words {
				spans[j] = Span{Text: w.Text, Highlighted: w.Highlighted}
			}
			cue := Cue{
				Start:     s.Start,
				End:       s.End,
				Timecodes: copyPair(s.Timecodes),
				Spans:     spans,
			}
			if !yield(cue) {
				return
			}
		}
	}
}

func wordCueEnd(s Segment, i int) float64 {
	if i == len(s.Words)-1 {
		return s.End
	}
	return s.Words[i+1].Start
}
