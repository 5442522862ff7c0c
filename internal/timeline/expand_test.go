package timeline

import "testing"

func TestExpand(t *testing.T) {
	s := seg("a b c", 0, 3, [2]float64{0, 0.5}, [2]float64{1, 1.5}, [2]float64{2, 3})
	got := Expand(s)

	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}

	for i, sub := range got {
		if sub.Start != s.Words[i].Start || sub.End != s.Words[i].End {
			t.Errorf("segment %d spans [%v, %v], want word span", i, sub.Start, sub.End)
		}
		if len(sub.Words) != 3 {
			t.Fatalf("segment %d has %d words, want 3", i, len(sub.Words))
		}
		for j, w := range sub.Words {
			if w.Highlighted != (i == j) {
				t.Errorf("segment %d word %d highlighted = %v", i, j, w.Highlighted)
			}
		}
	}

	got[0].Words[1].Highlighted = true
	if got[1].Words[0].Highlighted {
		t.Error("expanded segments share words")
	}
	if s.Words[0].Highlighted {
		t.Error("Expand modified the source segment")
	}
}

func TestExpandKeepsFrameRate(t *testing.T) {
	s := seg("a b", 0, 2, [2]float64{0, 0.5}, [2]float64{1.5, 2})
	s.SetFrameRate(24)

	got := Expand(s)
	if got[1].Timecodes == nil || got[1].Timecodes.Start != (Timecode{Seconds: 1, Frame: 12}) {
		t.Errorf("expanded timecodes = %+v", got[1].Timecodes)
	}
}

func TestExpandAllFlattensInOrder(t *testing.T) {
	segs := []Segment{
		seg("first", 0, 1, [2]float64{0, 0.5}, [2]float64{0.5, 1}),
		seg("second", 1, 2, [2]float64{1, 2}),
	}

	got := ExpandAll(segs)
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	if got[2].Text != "second" || got[2].Start != 1 {
		t.Errorf("unexpected last segment: %+v", got[2])
	}
}
