package leverage

import (
	"context"
	"fmt"

	"github.com/charleschow/tt-momentum/internal/core/model"
	"github.com/charleschow/tt-momentum/internal/core/simulation"
	"github.com/charleschow/tt-momentum/internal/core/state/match"
)

const DefaultCeiling = 0.2

// WinEstimator is the part of simulation.Estimator the calculator needs.
type WinEstimator interface {
	Estimate(ctx context.Context, st simulation.State) (simulation.Estimate, error)
}

// Result carries the leverage of one upcoming point together with the three
// estimates it was derived from.
type Result struct {
	Leverage float64
	Raw      float64 // (IfWin - IfLose) * decay, before clamping
	Decay    float64

	IfWin    simulation.Estimate // side one takes the point
	IfLose   simulation.Estimate // side two takes the point
	Baseline simulation.Estimate // current score
}

// Calculator measures how much the next point matters to the set: the swing
// in side one's set-win probability between winning and losing it, scaled
// down when the set is expected to run long.
type Calculator struct {
	est     WinEstimator
	curve   model.DecayCurve
	ceiling float64
	window  int
}

// NewCalculator builds a Calculator. window is the momentum window; only
// that many trailing real points can influence a rollout, so only that many
// are handed to the estimator.
func NewCalculator(est WinEstimator, curve model.DecayCurve, ceiling float64, window int) *Calculator {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Calculator{est: est, curve: curve, ceiling: ceiling, window: window}
}

func (c *Calculator) Ceiling() float64 { return c.ceiling }

// Leverage computes the importance of the point about to be played at score
// in set. history holds the real points played so far; rollouts are seeded
// from its tail in the previous and current set.
func (c *Calculator) Leverage(ctx context.Context, history []match.PointRecord, score match.Score, set int) (Result, error) {
	seed := match.Tail(history, set-1, c.window)

	ifWin, err := c.est.Estimate(ctx, simulation.State{Score: score.Add(match.SideOne), Set: set, History: seed})
	if err != nil {
		return Result{}, fmt.Errorf("leverage if win: %w", err)
	}
	ifLose, err := c.est.Estimate(ctx, simulation.State{Score: score.Add(match.SideTwo), Set: set, History: seed})
	if err != nil {
		return Result{}, fmt.Errorf("leverage if lose: %w", err)
	}
	base, err := c.est.Estimate(ctx, simulation.State{Score: score, Set: set, History: seed})
	if err != nil {
		return Result{}, fmt.Errorf("leverage baseline: %w", err)
	}

	decay := c.curve.At(base.AvgPoints)
	raw := (ifWin.WinProb.One - ifLose.WinProb.One) * decay
	return Result{
		Leverage: min(max(raw, 0), c.ceiling),
		Raw:      raw,
		Decay:    decay,
		IfWin:    ifWin,
		IfLose:   ifLose,
		Baseline: base,
	}, nil
}
