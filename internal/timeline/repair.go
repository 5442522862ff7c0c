package timeline

// Repair fills missing word start/end times from adjacent words and returns
// the repaired copy. The input is left untouched.
func Repair(segs []RawSegment) []RawSegment {
	out := CloneRaw(segs)
	RepairInPlace(out)
	return out
}

// RepairInPlace is Repair for callers that own segs and want it mutated.
func RepairInPlace(segs []RawSegment) {
	for i := range segs {
		RepairWords(segs[i].Words)
	}
}

// RepairWords fills missing times of a single word run, left to right.
//
// A missing start takes the previous word's end, else the next word's start,
// else 0. A missing end takes the next word's start, else the previous word's
// end, else the word's own start. Neighbours are read as currently stored, so
// a value filled on the left is visible to the word after it while the right
// neighbour is always seen in its original state.
func RepairWords(words []RawWord) {
	for i := range words {
		var prev, next *RawWord
		if i > 0 {
			prev = &words[i-1]
		}
		if i < len(words)-1 {
			next = &words[i+1]
		}

		w := &words[i]
		if w.Start == nil {
			switch {
			case prev != nil && prev.End != nil:
				w.Start = Seconds(*prev.End)
			case next != nil && next.Start != nil:
				w.Start = Seconds(*next.Start)
			default:
				w.Start = Seconds(0)
			}
		}

		if w.End == nil {
			switch {
			case next != nil && next.Start != nil:
				w.End = Seconds(*next.Start)
			case prev != nil && prev.End != nil:
				w.End = Seconds(*prev.End)
			default:
				w.End = Seconds(*w.Start)
			}
		}
	}
}
