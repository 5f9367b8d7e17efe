package model

import (
	"math"

	"github.com/charleschow/tt-momentum/internal/core/state/match"
)

// probEpsilon keeps probabilities off the interval ends so a sampling range
// p1+p2 can never collapse to zero width.
const probEpsilon = 1e-9

// Weights are the linear coefficients inside the logistic scoring model.
type Weights struct {
	Capability float64 `yaml:"capability"`
	Momentum   float64 `yaml:"momentum"`
	Deficit    float64 `yaml:"deficit"`
}

// DefaultWeights is the 0.7 / 0.2 / 0.1 variant.
func DefaultWeights() Weights {
	return Weights{Capability: 0.7, Momentum: 0.2, Deficit: 0.1}
}

// Momentum turns a player's attributes and the momentum state into a
// relative chance of winning the next point:
//
//	raw = (cap*wCap + m*wM - deficit*wDef*(1-resilience)) * form
//	p   = sigmoid(raw)
//
// deficit is the opponent's momentum minus the player's own, so a less
// resilient player loses more when trailing on momentum. The two players'
// values are not normalized against each other; the simulator draws on
// [0, p1+p2].
type Momentum struct {
	W Weights
}

func NewMomentum(w Weights) Momentum { return Momentum{W: w} }

func (m Momentum) Probability(p match.Player, momentum, deficit float64) float64 {
	raw := (p.Capability*m.W.Capability +
		momentum*m.W.Momentum -
		deficit*m.W.Deficit*(1-p.Resilience)) * p.Form
	return Clamp(Sigmoid(raw))
}

// Sigmoid is the standard logistic function.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Clamp forces p into [eps, 1-eps]. NaN maps to 0.5.
func Clamp(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 0.5
	case p < probEpsilon:
		return probEpsilon
	case p > 1-probEpsilon:
		return 1 - probEpsilon
	}
	return p
}
