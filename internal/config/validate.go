package config

import (
	"fmt"

	"github.com/charleschow/tt-momentum/internal/core/simulation"
)

// Validate checks the model constants before any simulation runs.
func (m Model) Validate() error {
	if m.Window < 1 {
		return fmt.Errorf("window must be >= 1, got %d", m.Window)
	}
	if m.InSetDecay < 0 || m.InSetDecay >= 1 {
		return fmt.Errorf("in_set_decay must be within [0,1), got %f", m.InSetDecay)
	}
	if m.CrossSetDecay < 0 || m.CrossSetDecay >= 1 {
		return fmt.Errorf("cross_set_decay must be within [0,1), got %f", m.CrossSetDecay)
	}
	if m.Trials < 1 {
		return fmt.Errorf("trials must be >= 1, got %d", m.Trials)
	}
	if m.LeverageCeiling <= 0 || m.LeverageCeiling > 1 {
		return fmt.Errorf("leverage_ceiling must be within (0,1], got %f", m.LeverageCeiling)
	}
	if m.DecayCurve.Amplitude <= 0 || m.DecayCurve.Rate <= 0 || m.DecayCurve.Floor < 0 {
		return fmt.Errorf("decay_curve needs amplitude > 0, rate > 0, floor >= 0, got %+v", m.DecayCurve)
	}
	if _, err := simulation.ParseLoserPolicy(m.SimLoserContribution); err != nil {
		return err
	}
	return nil
}
