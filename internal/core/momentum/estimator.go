package momentum

import (
	"math"

	"github.com/charleschow/tt-momentum/internal/core/state/match"
)

// Defaults for the trailing momentum window.
const (
	DefaultWindow        = 5
	DefaultInSetDecay    = 0.33
	DefaultCrossSetDecay = 0.5
)

// Estimator computes momentum as a decaying weighted average of the most
// recent Window point contributions. Points from the live set decay at
// InSetDecay per step back; points carried over from an earlier set decay at
// the faster CrossSetDecay, so a finished set fades without vanishing.
//
// An Estimator is a value and safe to share.
type Estimator struct {
	Window        int
	InSetDecay    float64
	CrossSetDecay float64
}

func New(window int, inSet, crossSet float64) Estimator {
	return Estimator{Window: window, InSetDecay: inSet, CrossSetDecay: crossSet}
}

func Default() Estimator {
	return New(DefaultWindow, DefaultInSetDecay, DefaultCrossSetDecay)
}

// At returns each side's momentum as of the last record in points, with live
// as the set currently being played. Empty input yields (0, 0).
func (e Estimator) At(points []match.PointRecord, live int) match.Pair {
	start := max(0, len(points)-e.Window)
	last := len(points) - 1

	var num match.Pair
	var den float64
	for k := start; k <= last; k++ {
		decay := e.CrossSetDecay
		if points[k].Set == live {
			decay = e.InSetDecay
		}
		w := math.Pow(1-decay, float64(last-k))
		num.One += points[k].Contribution.One * w
		num.Two += points[k].Contribution.Two * w
		den += w
	}
	if den == 0 {
		return match.Pair{}
	}
	return match.Pair{One: num.One / den, Two: num.Two / den}
}

// Deficit is how far behind side is on momentum: opponent minus own.
func Deficit(m match.Pair, side match.Side) float64 {
	return m.Get(side.Opponent()) - m.Get(side)
}
