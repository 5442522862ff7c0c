package timeline

// RawWord is one word as delivered by the transcription producer. Start, End
// and Score may be absent.
type RawWord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// RawSegment is one transcribed segment as delivered upstream.
type RawSegment struct {
	Start float64   `json:"start"`
	End   float64   `json:"end"`
	Text  string    `json:"text"`
	Words []RawWord `json:"words"`
}

// Seconds returns a pointer to v, for building RawWords by hand.
func Seconds(v float64) *float64 {
	return &v
}

// CloneRaw deep copies raw segments, including every optional field.
func CloneRaw(segs []RawSegment) []RawSegment {
	if segs == nil {
		return nil
	}
	out := make([]RawSegment, len(segs))
	for i, seg := range segs {
		out[i] = seg
		out[i].Words = cloneRawWords(seg.Words)
	}
	return out
}

func cloneRawWords(words []RawWord) []RawWord {
	if words == nil {
		return nil
	}
	out := make([]RawWord, len(words))
	for i, w := range words {
		out[i] = RawWord{
			Word:  w.Word,
			Start: copyFloat(w.Start),
			End:   copyFloat(w.End),
			Score: copyFloat(w.Score),
		}
	}
	return out
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
