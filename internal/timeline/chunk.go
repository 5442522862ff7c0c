package timeline

import (
	"fmt"
	"strings"
)

// FlattenWords returns copies of every word across segs, in order.
func FlattenWords(segs []Segment) []Word {
	var words []Word
	for _, s := range segs {
		for _, w := range s.Words {
			words = append(words, w.Clone())
		}
	}
	return words
}

// Rechunk regroups all words of segs into new segments of wordsPerSegment
// words. The final segment holds the remainder.
func Rechunk(segs []Segment, wordsPerSegment int) ([]Segment, error) {
	if wordsPerSegment <= 0 {
		return nil, fmt.Errorf("rechunk %d: %w", wordsPerSegment, ErrInvalidChunkSize)
	}

	words := FlattenWords(segs)
	out := make([]Segment, 0, (len(words)+wordsPerSegment-1)/wordsPerSegment)
	for i := 0; i < len(words); i += wordsPerSegment {
		end := min(i+wordsPerSegment, len(words))
		out = append(out, segmentFromWords(words[i:end:end]))
	}
	return out, nil
}

// SegmentsFromWords chunks a flat word list into segments of wordsPerSegment
// words, filling missing times within each chunk first. words is not
// modified.
func SegmentsFromWords(words []RawWord, wordsPerSegment int) ([]Segment, error) {
	if wordsPerSegment <= 0 {
		return nil, fmt.Errorf("segments from words %d: %w", wordsPerSegment, ErrInvalidChunkSize)
	}

	var out []Segment
	for i := 0; i < len(words); i += wordsPerSegment {
		end := min(i+wordsPerSegment, len(words))
		chunk := cloneRawWords(words[i:end])
		RepairWords(chunk)

		converted := make([]Word, len(chunk))
		for j, rw := range chunk {
			converted[j] = Word{
				Start: *rw.Start,
				End:   *rw.End,
				Text:  rw.Word,
				Score: rw.Score,
			}
		}
		out = append(out, segmentFromWords(converted))
	}
	return out, nil
}

// segmentFromWords spans words from the first start to the last end.
func segmentFromWords(words []Word) Segment {
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	return Segment{
		Start: words[0].Start,
		End:   words[len(words)-1].End,
		Text:  strings.Join(texts, " "),
		Words: words,
	}
}
