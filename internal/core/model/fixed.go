package model

import "github.com/charleschow/tt-momentum/internal/core/state/match"

// Fixed ignores momentum entirely: every point is drawn from the players'
// base capability. This is the no-momentum baseline the leverage numbers
// are compared against.
type Fixed struct{}

func (Fixed) Probability(p match.Player, _, _ float64) float64 {
	return Clamp(p.Capability)
}
