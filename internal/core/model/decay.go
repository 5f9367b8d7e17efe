package model

import "math"

// DecayCurve scales leverage by the expected number of points left in the
// set: short, decisive finishes weigh more per point than long grinds.
//
//	f(x) = Amplitude * exp(-Rate * (x - 1)) + Floor
//
// With the defaults f(1) = 1 and f approaches 0.3 as x grows.
type DecayCurve struct {
	Amplitude float64 `yaml:"amplitude"`
	Rate      float64 `yaml:"rate"`
	Floor     float64 `yaml:"floor"`
}

func DefaultDecayCurve() DecayCurve {
	return DecayCurve{Amplitude: 0.7, Rate: 0.2, Floor: 0.3}
}

func (c DecayCurve) At(x float64) float64 {
	return c.Amplitude*math.Exp(-c.Rate*(x-1.0)) + c.Floor
}
