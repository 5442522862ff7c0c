package timeline

import "fmt"

// Stitch joins independently timed parts into one continuous timeline and
// returns new segments; the parts are not modified.
//
// Each part is shifted so its first segment starts at the elapsed time.
// Elapsed then advances by durations[k] when a duration is declared for part
// k, otherwise it jumps to the end of the part's last segment, which ignores
// any trailing silence in that clip. Empty parts are skipped and do not
// advance the timeline.
func Stitch(parts [][]Segment, durations []float64) []Segment {
	copied := make([][]Segment, len(parts))
	for i, part := range parts {
		copied[i] = CloneSegments(part)
	}
	return StitchInPlace(copied, durations)
}

// StitchInPlace behaves like Stitch but shifts the callers' segments directly.
// The returned slice shares Words with parts.
func StitchInPlace(parts [][]Segment, durations []float64) []Segment {
	var out []Segment
	elapsed := 0.0

	for k, part := range parts {
		if len(part) == 0 {
			continue
		}

		offset := elapsed - part[0].Start
		for i := range part {
			part[i].shift(offset)
			out = append(out, part[i])
		}

		if k < len(durations) {
			elapsed += durations[k]
		} else {
			elapsed = part[len(part)-1].End
		}
	}

	return out
}

// PlaceAt joins parts whose absolute start offsets are known, such as audio
// chunks cut at fixed points. Every time in part k, including optional word
// times, moves by offsets[k]; leading silence and empty parts keep their
// place on the timeline. The parts are not modified.
func PlaceAt(parts [][]RawSegment, offsets []float64) ([]RawSegment, error) {
	if len(offsets) < len(parts) {
		return nil, fmt.Errorf("%d parts but %d offsets: %w", len(parts), len(offsets), ErrMissingOffset)
	}

	var out []RawSegment
	for k, part := range parts {
		for _, seg := range CloneRaw(part) {
			seg.Start += offsets[k]
			seg.End += offsets[k]
			for i := range seg.Words {
				shiftRaw(seg.Words[i].Start, offsets[k])
				shiftRaw(seg.Words[i].End, offsets[k])
			}
			out = append(out, seg)
		}
	}
	return out, nil
}

func shiftRaw(p *float64, offset float64) {
	if p != nil {
		*p += offset
	}
}
