package timeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func word(text string, start, end *float64) RawWord {
	return RawWord{Word: text, Start: start, End: end}
}

func times(words []RawWord) [][2]float64 {
	out := make([][2]float64, len(words))
	for i, w := range words {
		out[i] = [2]float64{*w.Start, *w.End}
	}
	return out
}

func TestRepairFillsFromNeighbours(t *testing.T) {
	tests := []struct {
		name  string
		words []RawWord
		want  [][2]float64
	}{
		{
			name: "run of two missing words",
			words: []RawWord{
				word("a", Seconds(1), Seconds(2)),
				word("b", nil, nil),
				word("c", nil, nil),
				word("d", Seconds(5), Seconds(6)),
			},
			want: [][2]float64{{1, 2}, {2, 2}, {2, 5}, {5, 6}},
		},
		{
			name: "first word takes next start",
			words: []RawWord{
				word("a", nil, Seconds(0.5)),
				word("b", Seconds(0.75), Seconds(1)),
			},
			want: [][2]float64{{0.75, 0.5}, {0.75, 1}},
		},
		{
			name: "last word takes previous end",
			words: []RawWord{
				word("a", Seconds(1), Seconds(2)),
				word("b", Seconds(3), nil),
			},
			want: [][2]float64{{1, 2}, {3, 2}},
		},
		{
			name: "single word without neighbours",
			words: []RawWord{
				word("a", Seconds(4), nil),
			},
			want: [][2]float64{{4, 4}},
		},
		{
			name: "nothing known defaults to zero",
			words: []RawWord{
				word("a", nil, nil),
				word("b", nil, nil),
				word("c", nil, nil),
			},
			want: [][2]float64{{0, 0}, {0, 0}, {0, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := []RawSegment{{Text: "x", Words: tt.words}}
			got := Repair(segs)
			if diff := cmp.Diff(tt.want, times(got[0].Words)); diff != "" {
				t.Errorf("Repair() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRepairDoesNotMutateInput(t *testing.T) {
	segs := []RawSegment{{
		Text:  "a b",
		Words: []RawWord{word("a", Seconds(1), nil), word("b", nil, Seconds(3))},
	}}

	_ = Repair(segs)

	if segs[0].Words[0].End != nil || segs[0].Words[1].Start != nil {
		t.Error("Repair modified its input")
	}

	RepairInPlace(segs)
	if segs[0].Words[0].End == nil || segs[0].Words[1].Start == nil {
		t.Error("RepairInPlace did not fill the input")
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	segs := []RawSegment{
		{
			Start: 0.27,
			End:   1.632,
			Text:  "Hello world.",
			Words: []RawWord{
				word("Hello", Seconds(0.27), Seconds(0.61)),
				word("world.", nil, Seconds(1.091)),
			},
		},
		{Text: "empty"},
	}

	once := Repair(segs)
	twice := Repair(once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second Repair changed output (-once +twice):\n%s", diff)
	}
	if got := *once[0].Words[1].Start; got != 0.61 {
		t.Errorf("repaired start = %v, want 0.61", got)
	}
}
