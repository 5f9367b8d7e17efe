package leverage

import (
	"context"
	"errors"
	"testing"

	"github.com/charleschow/tt-momentum/internal/core/model"
	"github.com/charleschow/tt-momentum/internal/core/momentum"
	"github.com/charleschow/tt-momentum/internal/core/simulation"
	"github.com/charleschow/tt-momentum/internal/core/state/match"
)

var players = match.Players{
	One: match.Player{ID: "H", Name: "Harimoto", Capability: 0.45, Resilience: 0.8, Form: 0.9},
	Two: match.Player{ID: "F", Name: "Fan Zhendong", Capability: 0.55, Resilience: 0.9, Form: 0.9},
}

func newCalculator(t *testing.T, trials int) *Calculator {
	t.Helper()
	est, err := simulation.NewEstimator(players, model.NewMomentum(model.DefaultWeights()), momentum.Default(),
		simulation.Config{Trials: trials, Workers: 4, Seed: 11})
	if err != nil {
		t.Fatalf("NewEstimator: %v", err)
	}
	return NewCalculator(est, model.DefaultDecayCurve(), DefaultCeiling, momentum.DefaultWindow)
}

func TestLeverageBounded(t *testing.T) {
	calc := newCalculator(t, 2000)
	ctx := context.Background()
	for _, s := range []match.Score{{}, {One: 5, Two: 5}, {One: 10, Two: 10}, {One: 10, Two: 0}, {One: 0, Two: 10}, {One: 12, Two: 11}} {
		res, err := calc.Leverage(ctx, nil, s, 0)
		if err != nil {
			t.Fatalf("Leverage(%s): %v", s, err)
		}
		if res.Leverage < 0 || res.Leverage > DefaultCeiling {
			t.Fatalf("Leverage(%s) = %v, want within [0, %v]", s, res.Leverage, DefaultCeiling)
		}
	}
}

func TestCloseLateSetBeatsBlowout(t *testing.T) {
	calc := newCalculator(t, 5000)
	ctx := context.Background()
	tight, err := calc.Leverage(ctx, nil, match.Score{One: 9, Two: 9}, 0)
	if err != nil {
		t.Fatalf("Leverage: %v", err)
	}
	blowout, err := calc.Leverage(ctx, nil, match.Score{One: 10, Two: 2}, 0)
	if err != nil {
		t.Fatalf("Leverage: %v", err)
	}
	if blowout.Leverage >= tight.Leverage {
		t.Fatalf("10:2 leverage %v should be below 9:9 leverage %v", blowout.Leverage, tight.Leverage)
	}
}

func TestCeilingApplied(t *testing.T) {
	calc := newCalculator(t, 2000)
	calc.ceiling = 0.05
	res, err := calc.Leverage(context.Background(), nil, match.Score{One: 10, Two: 10}, 0)
	if err != nil {
		t.Fatalf("Leverage: %v", err)
	}
	if res.Raw <= 0.05 {
		t.Fatalf("expected raw leverage above 0.05 at deuce, got %v", res.Raw)
	}
	if res.Leverage != 0.05 {
		t.Fatalf("expected clamp to 0.05, got %v", res.Leverage)
	}
}

type recordingEstimator struct {
	states []simulation.State
	err    error
}

func (r *recordingEstimator) Estimate(_ context.Context, st simulation.State) (simulation.Estimate, error) {
	r.states = append(r.states, st)
	if r.err != nil {
		return simulation.Estimate{}, r.err
	}
	p := float64(st.Score.One-st.Score.Two)*0.1 + 0.5
	return simulation.Estimate{Trials: 1, WinProb: match.Pair{One: p, Two: 1 - p}, AvgPoints: 1}, nil
}

func TestBranchesAndSeedHistory(t *testing.T) {
	rec := &recordingEstimator{}
	calc := NewCalculator(rec, model.DefaultDecayCurve(), DefaultCeiling, 3)

	history := []match.PointRecord{{Set: 0}, {Set: 1}, {Set: 2}, {Set: 2}, {Set: 3}, {Set: 3}}
	res, err := calc.Leverage(context.Background(), history, match.Score{One: 4, Two: 4}, 3)
	if err != nil {
		t.Fatalf("Leverage: %v", err)
	}
	if len(rec.states) != 3 {
		t.Fatalf("expected 3 estimates, got %d", len(rec.states))
	}
	if rec.states[0].Score != (match.Score{One: 5, Two: 4}) || rec.states[1].Score != (match.Score{One: 4, Two: 5}) || rec.states[2].Score != (match.Score{One: 4, Two: 4}) {
		t.Fatalf("unexpected branch scores: %+v", rec.states)
	}
	seed := rec.states[0].History
	if len(seed) != 3 || seed[0].Set != 2 {
		t.Fatalf("expected last 3 records from sets 2-3, got %+v", seed)
	}
	// (0.6 - 0.4) * decay(1) = 0.2
	if res.Leverage < 0.2-1e-12 || res.Leverage > 0.2 {
		t.Fatalf("expected leverage 0.2, got %v", res.Leverage)
	}
}

func TestEstimatorErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	calc := NewCalculator(&recordingEstimator{err: boom}, model.DefaultDecayCurve(), DefaultCeiling, 5)
	if _, err := calc.Leverage(context.Background(), nil, match.Score{}, 0); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped estimator error, got %v", err)
	}
}
