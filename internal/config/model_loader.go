package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/charleschow/tt-momentum/internal/core/leverage"
	"github.com/charleschow/tt-momentum/internal/core/model"
	"github.com/charleschow/tt-momentum/internal/core/momentum"
	"github.com/charleschow/tt-momentum/internal/core/simulation"
)

// Model holds the tunable constants of the momentum / leverage model.
type Model struct {
	Window        int     `yaml:"window"`
	InSetDecay    float64 `yaml:"in_set_decay"`
	CrossSetDecay float64 `yaml:"cross_set_decay"`

	Trials          int     `yaml:"trials"`
	LeverageCeiling float64 `yaml:"leverage_ceiling"`

	Weights    model.Weights    `yaml:"weights"`
	DecayCurve model.DecayCurve `yaml:"decay_curve"`

	// SimLoserContribution is "negate" or "zero".
	SimLoserContribution string `yaml:"sim_loser_contribution"`
}

func DefaultModel() Model {
	return Model{
		Window:               momentum.DefaultWindow,
		InSetDecay:           momentum.DefaultInSetDecay,
		CrossSetDecay:        momentum.DefaultCrossSetDecay,
		Trials:               simulation.DefaultTrials,
		LeverageCeiling:      leverage.DefaultCeiling,
		Weights:              model.DefaultWeights(),
		DecayCurve:           model.DefaultDecayCurve(),
		SimLoserContribution: string(simulation.LoserNegate),
	}
}

// LoadModel reads a model file over the defaults; keys absent from the file
// keep their default value.
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Model{}, fmt.Errorf("read model: %w", err)
	}

	m := DefaultModel()
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Model{}, fmt.Errorf("parse model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Model{}, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

func (m Model) Momentum() momentum.Estimator {
	return momentum.New(m.Window, m.InSetDecay, m.CrossSetDecay)
}

func (m Model) LoserPolicy() simulation.LoserPolicy {
	return simulation.LoserPolicy(m.SimLoserContribution)
}
