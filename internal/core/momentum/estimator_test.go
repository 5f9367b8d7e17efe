package momentum

import (
	"math"
	"testing"

	"github.com/charleschow/tt-momentum/internal/core/state/match"
)

func rec(set int, one, two float64) match.PointRecord {
	return match.PointRecord{Set: set, Contribution: match.Pair{One: one, Two: two}}
}

func TestEmptyHistoryIsZero(t *testing.T) {
	if got := Default().At(nil, 0); got != (match.Pair{}) {
		t.Fatalf("expected zero momentum, got %+v", got)
	}
}

func TestZeroContributionsGiveZero(t *testing.T) {
	pts := []match.PointRecord{rec(0, 0, 0), rec(0, 0, 0), rec(1, 0, 0)}
	for _, e := range []Estimator{Default(), New(3, 0.9, 0.1), New(10, 0, 0)} {
		if got := e.At(pts, 1); got != (match.Pair{}) {
			t.Fatalf("expected zero momentum, got %+v", got)
		}
	}
}

func TestSinglePoint(t *testing.T) {
	got := Default().At([]match.PointRecord{rec(0, 0.12, 0)}, 0)
	if got.One != 0.12 || got.Two != 0 {
		t.Fatalf("expected (0.12, 0), got %+v", got)
	}
}

func TestHandComputedWindow(t *testing.T) {
	// Two same-set points then one cross-set point, live set 1.
	pts := []match.PointRecord{rec(0, 0.1, 0), rec(0, 0, 0.2), rec(1, 0.3, 0)}
	got := Default().At(pts, 1)

	w2, w1, w0 := 0.25, 0.5, 1.0 // (1-0.5)^2, (1-0.5)^1, (1-0.33)^0
	den := w0 + w1 + w2
	wantOne := (0.1*w2 + 0.3*w0) / den
	wantTwo := (0.2 * w1) / den
	if math.Abs(got.One-wantOne) > 1e-12 || math.Abs(got.Two-wantTwo) > 1e-12 {
		t.Fatalf("expected (%v, %v), got %+v", wantOne, wantTwo, got)
	}
}

func TestWindowDropsOldPoints(t *testing.T) {
	pts := []match.PointRecord{rec(0, 1, 0)}
	for range DefaultWindow {
		pts = append(pts, rec(0, 0, 0))
	}
	if got := Default().At(pts, 0); got.One != 0 {
		t.Fatalf("point outside the window leaked into momentum: %+v", got)
	}
}

func TestHighInSetDecayConvergesToLastPoint(t *testing.T) {
	pts := []match.PointRecord{rec(0, 0.2, 0), rec(0, 0, 0.15), rec(0, 0.05, 0), rec(0, 0.18, 0)}
	prevErr := math.Inf(1)
	for _, decay := range []float64{0.5, 0.9, 0.99, 0.9999} {
		got := New(5, decay, 0.5).At(pts, 0)
		err := math.Abs(got.One-0.18) + math.Abs(got.Two)
		if err >= prevErr {
			t.Fatalf("decay %v: distance to last point %v did not shrink (prev %v)", decay, err, prevErr)
		}
		prevErr = err
	}
	if prevErr > 1e-3 {
		t.Fatalf("expected convergence to last point, residual %v", prevErr)
	}
}

func TestBoundedByContributions(t *testing.T) {
	pts := []match.PointRecord{rec(0, 1, 0), rec(0, 0, -1), rec(1, -1, 0), rec(1, 0, 1)}
	got := Default().At(pts, 1)
	if math.Abs(got.One) > 1 || math.Abs(got.Two) > 1 {
		t.Fatalf("momentum escaped [-1,1]: %+v", got)
	}
}

func TestDeficit(t *testing.T) {
	m := match.Pair{One: 0.1, Two: 0.25}
	if d := Deficit(m, match.SideOne); math.Abs(d-0.15) > 1e-12 {
		t.Fatalf("expected 0.15, got %v", d)
	}
	if d := Deficit(m, match.SideTwo); math.Abs(d+0.15) > 1e-12 {
		t.Fatalf("expected -0.15, got %v", d)
	}
}
