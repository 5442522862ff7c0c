package timeline

// Expand explodes a segment into one segment per word. Output i spans word
// i and holds its own copy of every word with only word i highlighted.
func Expand(seg Segment) []Segment {
	out := make([]Segment, 0, len(seg.Words))
	for i, w := range seg.Words {
		sub := seg.Clone()
		sub.Start = w.Start
		sub.End = w.End
		for j := range sub.Words {
			sub.Words[j].Highlighted = j == i
		}
		if seg.Timecodes != nil {
			sub.SetFrameRate(seg.FrameRate)
		}
		out = append(out, sub)
	}
	return out
}

// ExpandAll expands every segment and flattens the result in input order.
func ExpandAll(segs []Segment) []Segment {
	var out []Segment
	for _, seg := range segs {
		out = append(out, Expand(seg)...)
	}
	return out
}
