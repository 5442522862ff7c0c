package timeline

import "fmt"

// CloseGaps bridges inter-cue gaps shorter than threshold seconds so no blank
// frame flickers between consecutive cues. It works on a copy and requires
// every segment to have timecodes.
//
// Pass one walks adjacent pairs. A gap at or above the threshold is left
// alone. When both boundary instants fall in the same second the previous cue
// is snapped onto the next cue's start frame; otherwise both cues meet at the
// midpoint of the gap.
//
// Pass two repairs cues that collapsed to zero width, either in seconds or
// after quantization, by stretching them from the previous cue's end to the
// next cue's start where those neighbours exist.
func CloseGaps(segs []Segment, threshold float64) ([]Segment, error) {
	for i, s := range segs {
		if s.Timecodes == nil {
			return nil, fmt.Errorf("close gaps: segment %d: %w", i, ErrNoTimecodes)
		}
	}

	out := CloneSegments(segs)
	bridge(out, threshold)
	fixCollapsed(out)
	return out, nil
}

func bridge(segs []Segment, threshold float64) {
	for idx := 1; idx < len(segs); idx++ {
		prev := &segs[idx-1]
		cur := &segs[idx]

		if cur.Start-prev.End >= threshold {
			continue
		}

		if prev.Timecodes.End.SameSecond(cur.Timecodes.Start) {
			prev.Timecodes.End = prev.Timecodes.End.WithFrame(cur.Timecodes.Start.Frame)
			prev.End = cur.Start
			continue
		}

		avg := (cur.Start + prev.End) / 2
		tc := NewTimecode(avg, cur.FrameRate)
		prev.End = avg
		prev.Timecodes.End = tc
		cur.Start = avg
		cur.Timecodes.Start = tc
	}
}

func fixCollapsed(segs []Segment) {
	last := len(segs) - 1
	for idx := range segs {
		s := &segs[idx]
		if s.Start != s.End && s.Timecodes.Start != s.Timecodes.End {
			continue
		}
		if idx > 0 {
			s.Start = segs[idx-1].End
			s.Timecodes.Start = segs[idx-1].Timecodes.End
		}
		if idx < last {
			s.End = segs[idx+1].Start
			s.Timecodes.End = segs[idx+1].Timecodes.Start
		}
	}
}
