package domain

import "github.com/nathangeffen/matchcmp/internal/stochastic"

// Sampler is the random stream a run draws every attribute, event outcome and
// shuffle from.
type Sampler interface {
	Uniform(a, b float64) float64
	Bernoulli(p float64) bool
	GeometricCapped(p float64, max int) int
	Beta(shape stochastic.Shape) float64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

var _ Sampler = (*stochastic.Sampler)(nil)
