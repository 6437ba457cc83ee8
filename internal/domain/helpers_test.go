package domain

import (
	"testing"

	"github.com/nathangeffen/matchcmp/internal/stochastic"
)

// scriptedSampler replays queued draws. Empty queues fall back to the lowest
// possible value, which makes any event with positive probability fire.
type scriptedSampler struct {
	uniforms   []float64
	geometrics []int
	ints       []int
	bernoullis []bool
	beta       float64
}

func (s *scriptedSampler) Uniform(a, b float64) float64 {
	if len(s.uniforms) == 0 {
		return a
	}
	v := s.uniforms[0]
	s.uniforms = s.uniforms[1:]
	return a + v*(b-a)
}

func (s *scriptedSampler) Bernoulli(float64) bool {
	if len(s.bernoullis) == 0 {
		return false
	}
	v := s.bernoullis[0]
	s.bernoullis = s.bernoullis[1:]
	return v
}

func (s *scriptedSampler) GeometricCapped(_ float64, max int) int {
	if len(s.geometrics) == 0 {
		return 0
	}
	v := s.geometrics[0]
	s.geometrics = s.geometrics[1:]
	if v > max {
		return max
	}
	return v
}

func (s *scriptedSampler) Beta(stochastic.Shape) float64 {
	return s.beta
}

func (s *scriptedSampler) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedSampler) Shuffle(int, func(i, j int)) {}

func testAgent(id AgentID, sex Sex) *Agent {
	return &Agent{ID: id, Sex: sex, Age: 18, Alive: true}
}

func testPopulation(t *testing.T, agents ...*Agent) *Population {
	t.Helper()
	pop, err := PopulationOf(agents)
	if err != nil {
		t.Fatalf("build population: %v", err)
	}
	return pop
}
