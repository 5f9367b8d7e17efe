package model

import (
	"math"
	"testing"

	"github.com/charleschow/tt-momentum/internal/core/state/match"
)

var harimoto = match.Player{ID: "H", Name: "Harimoto", Capability: 0.45, Resilience: 0.8, Form: 0.9}

func TestProbabilityStrictlyInsideUnitInterval(t *testing.T) {
	m := NewMomentum(DefaultWeights())
	inputs := []float64{-1e9, -50, -1, 0, 0.3, 1, 50, 1e9}
	for _, mom := range inputs {
		for _, def := range inputs {
			p := m.Probability(harimoto, mom, def)
			if !(p > 0 && p < 1) {
				t.Fatalf("Probability(m=%v, d=%v) = %v, want within (0,1)", mom, def, p)
			}
		}
	}
}

func TestProbabilityDecreasesWithDeficit(t *testing.T) {
	m := NewMomentum(DefaultWeights())
	prev := m.Probability(harimoto, 0.1, -1)
	for d := -0.9; d <= 1.0; d += 0.1 {
		p := m.Probability(harimoto, 0.1, d)
		if p >= prev {
			t.Fatalf("deficit %.1f: probability %v did not drop below %v", d, p, prev)
		}
		prev = p
	}
}

func TestResilienceDampensDeficit(t *testing.T) {
	m := NewMomentum(DefaultWeights())
	fragile := harimoto
	fragile.Resilience = 0.2
	if m.Probability(fragile, 0, 0.5) >= m.Probability(harimoto, 0, 0.5) {
		t.Fatal("less resilient player should be hurt more by a momentum deficit")
	}
}

func TestProbabilityAtRestDependsOnCapabilityAndForm(t *testing.T) {
	m := NewMomentum(DefaultWeights())
	want := Sigmoid(0.45 * 0.7 * 0.9)
	if got := m.Probability(harimoto, 0, 0); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
	other := harimoto
	other.Resilience = 0.1
	if m.Probability(other, 0, 0) != m.Probability(harimoto, 0, 0) {
		t.Fatal("resilience must not matter without momentum")
	}
}

func TestFixedUsesCapability(t *testing.T) {
	if got := (Fixed{}).Probability(harimoto, 0.9, -0.9); got != 0.45 {
		t.Fatalf("expected 0.45, got %v", got)
	}
}

func TestDecayCurve(t *testing.T) {
	c := DefaultDecayCurve()
	if got := c.At(1); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("expected f(1)=1, got %v", got)
	}
	if c.At(5) >= c.At(2) {
		t.Fatal("curve must decrease with rally length")
	}
	if got := c.At(1000); math.Abs(got-c.Floor) > 1e-9 {
		t.Fatalf("expected floor %v, got %v", c.Floor, got)
	}
}
