// Package transcript loads WhisperX-style transcription JSON.
package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mgpai22/captime/internal/timeline"
)

var (
	ErrNoSegments = errors.New("transcript has no segments")
	ErrNoWords    = errors.New("transcript has no word list")
)

// document is the top-level WhisperX output.
type document struct {
	Segments     []timeline.RawSegment `json:"segments"`
	WordSegments []timeline.RawWord    `json:"word_segments,omitempty"`
	Language     string                `json:"language,omitempty"`
}

// Transcript is one decoded transcription result. Segments or Words may be
// empty, never both.
type Transcript struct {
	Segments []timeline.RawSegment
	Words    []timeline.RawWord
	Language string
}

// Decode reads a transcript from r. The input is either a WhisperX object
// with "segments" and optionally "word_segments", a bare array of segments,
// or a bare array of words.
func Decode(r io.Reader) (*Transcript, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrNoSegments
	}

	if trimmed[0] == '[' {
		return decodeArray(trimmed)
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}
	if len(doc.Segments) == 0 && len(doc.WordSegments) == 0 {
		return nil, ErrNoSegments
	}
	return &Transcript{
		Segments: doc.Segments,
		Words:    doc.WordSegments,
		Language: doc.Language,
	}, nil
}

// decodeArray tells a word list from a segment list by its first element.
func decodeArray(data []byte) (*Transcript, error) {
	var elems []map[string]json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}
	if len(elems) == 0 {
		return nil, ErrNoSegments
	}

	_, isWord := elems[0]["word"]
	if _, hasWords := elems[0]["words"]; isWord && !hasWords {
		var words []timeline.RawWord
		if err := json.Unmarshal(data, &words); err != nil {
			return nil, fmt.Errorf("failed to parse word list: %w", err)
		}
		return &Transcript{Words: words}, nil
	}

	var segs []timeline.RawSegment
	if err := json.Unmarshal(data, &segs); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}
	return &Transcript{Segments: segs}, nil
}

// WordList returns the flat word list, falling back to the words of every
// segment in order.
func (t *Transcript) WordList() ([]timeline.RawWord, error) {
	if len(t.Words) > 0 {
		return t.Words, nil
	}
	var words []timeline.RawWord
	for _, s := range t.Segments {
		words = append(words, s.Words...)
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	return words, nil
}

// Load decodes the transcript file at path.
func Load(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadAll loads the segments of each transcript in order, one part per clip.
func LoadAll(paths []string) ([][]timeline.RawSegment, error) {
	parts := make([][]timeline.RawSegment, 0, len(paths))
	for _, p := range paths {
		t, err := Load(p)
		if err != nil {
			return nil, err
		}
		if len(t.Segments) == 0 {
			return nil, fmt.Errorf("%s: %w", p, ErrNoSegments)
		}
		parts = append(parts, t.Segments)
	}
	return parts, nil
}

// Encode writes segments in the object form Decode accepts.
func Encode(w io.Writer, segs []timeline.RawSegment, language string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Segments: segs, Language: language}); err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return nil
}
