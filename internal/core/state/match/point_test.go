package match

import "testing"

func pointsForSets(sets ...int) []PointRecord {
	out := make([]PointRecord, len(sets))
	for i, s := range sets {
		out[i] = PointRecord{Set: s, Contribution: Pair{One: float64(i + 1)}}
	}
	return out
}

func TestTailLimitsCount(t *testing.T) {
	pts := pointsForSets(0, 0, 0, 0, 0, 0, 0)
	got := Tail(pts, 0, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 records, got %d", len(got))
	}
	if got[4].Contribution.One != 7 {
		t.Fatalf("expected last record kept, got %v", got[4])
	}
}

func TestTailStopsAtEarlierSet(t *testing.T) {
	pts := pointsForSets(0, 0, 1, 1, 2, 2)
	got := Tail(pts, 1, 10)
	if len(got) != 4 {
		t.Fatalf("expected records from sets 1 and 2 only, got %d", len(got))
	}
	if got[0].Set != 1 {
		t.Fatalf("expected first record from set 1, got %d", got[0].Set)
	}
}

func TestTailReturnsCopy(t *testing.T) {
	pts := pointsForSets(0, 0)
	got := Tail(pts, 0, 2)
	got[0].Contribution.One = 99
	if pts[0].Contribution.One == 99 {
		t.Fatal("Tail must not alias the source slice")
	}
}

func TestViewAppendDoesNotTouchLog(t *testing.T) {
	log := NewPointLog()
	log.Append(PointRecord{Set: 0})
	log.Append(PointRecord{Set: 0})

	v := log.View()
	v = append(v, PointRecord{Set: 9})
	if log.Len() != 2 {
		t.Fatalf("expected log length 2, got %d", log.Len())
	}
	log.Append(PointRecord{Set: 1})
	if v[2].Set != 9 {
		t.Fatal("append through view must have copied the backing array")
	}
	last, _ := log.Last()
	if last.Set != 1 {
		t.Fatalf("expected last set 1, got %d", last.Set)
	}
}

func TestPlayersSideOf(t *testing.T) {
	p := Players{One: Player{ID: "H"}, Two: Player{ID: "F"}}
	if s, ok := p.SideOf("F"); !ok || s != SideTwo {
		t.Fatalf("expected F on side two, got %v %v", s, ok)
	}
	if _, ok := p.SideOf("X"); ok {
		t.Fatal("unknown tag must not resolve")
	}
}
