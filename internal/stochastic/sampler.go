// Package stochastic provides the seeded random stream shared by every draw of
// one simulation run.
package stochastic

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// streamSalt decorrelates the two PCG words derived from a single seed.
const streamSalt uint64 = 0x9e3779b97f4a7c15

var ErrInvalidShape = errors.New("invalid beta shape")

// Shape holds the two Beta shape parameters.
type Shape struct {
	Alpha float64
	Beta  float64
}

func (s Shape) Validate() error {
	if !(s.Alpha > 0) || math.IsInf(s.Alpha, 0) {
		return fmt.Errorf("%w: alpha %v", ErrInvalidShape, s.Alpha)
	}
	if !(s.Beta > 0) || math.IsInf(s.Beta, 0) {
		return fmt.Errorf("%w: beta %v", ErrInvalidShape, s.Beta)
	}
	return nil
}

// Mean returns alpha/(alpha+beta).
func (s Shape) Mean() float64 {
	return s.Alpha / (s.Alpha + s.Beta)
}

// ShapeFromMeanTime converts a mean waiting time into a Beta shape whose draws
// are per-step event probabilities: alpha=2, beta=2*meanTime/timeStep.
func ShapeFromMeanTime(meanTime, timeStep float64) (Shape, error) {
	if !(meanTime > 0) {
		return Shape{}, fmt.Errorf("%w: mean time must be positive, got %v", ErrInvalidShape, meanTime)
	}
	if !(timeStep > 0) {
		return Shape{}, fmt.Errorf("%w: time step must be positive, got %v", ErrInvalidShape, timeStep)
	}

	shape := Shape{Alpha: 2.0, Beta: meanTime / timeStep * 2.0}
	return shape, shape.Validate()
}

// ShapeFromMean converts a target mean probability into a Beta shape:
// alpha=2, beta=2/mean-2.
func ShapeFromMean(mean float64) (Shape, error) {
	if !(mean > 0) || !(mean < 1) {
		return Shape{}, fmt.Errorf("%w: mean must be in (0,1), got %v", ErrInvalidShape, mean)
	}

	shape := Shape{Alpha: 2.0, Beta: 2.0/mean - 2.0}
	return shape, shape.Validate()
}

// Sampler draws from a single PCG stream. It is not safe for concurrent use;
// the draw order is part of a run's reproducibility.
type Sampler struct {
	src *rand.PCG
	rnd *rand.Rand
}

func New(seed uint64) *Sampler {
	src := rand.NewPCG(seed, seed^streamSalt)
	return &Sampler{src: src, rnd: rand.New(src)}
}

// Uniform draws from [a, b).
func (s *Sampler) Uniform(a, b float64) float64 {
	v := distuv.Uniform{Min: a, Max: b, Src: s.src}.Rand()
	if v >= b && b > a {
		return math.Nextafter(b, a)
	}
	return v
}

func (s *Sampler) Bernoulli(p float64) bool {
	return distuv.Bernoulli{P: p, Src: s.src}.Rand() == 1
}

// GeometricCapped returns the number of failures before the first success
// with success probability p, clamped to max.
func (s *Sampler) GeometricCapped(p float64, max int) int {
	if max < 0 {
		max = 0
	}
	if p >= 1 {
		return 0
	}
	if p <= 0 {
		return max
	}

	u := s.rnd.Float64()
	k := math.Floor(math.Log1p(-u) / math.Log1p(-p))
	if k >= float64(max) {
		return max
	}
	return int(k)
}

// Beta draws from Beta(shape.Alpha, shape.Beta). Shapes must have been
// validated; gonum panics on non-positive parameters.
func (s *Sampler) Beta(shape Shape) float64 {
	return distuv.Beta{Alpha: shape.Alpha, Beta: shape.Beta, Src: s.src}.Rand()
}

// IntN draws uniformly from [0, n).
func (s *Sampler) IntN(n int) int {
	return s.rnd.IntN(n)
}

func (s *Sampler) Shuffle(n int, swap func(i, j int)) {
	s.rnd.Shuffle(n, swap)
}
