package domain

import "fmt"

// Matcher chooses a new partner for an agent seeking one.
type Matcher interface {
	Match(pop *Population, seeker *Agent, s Sampler) (AgentID, bool)
}

func NewMatcher(policy MatchingPolicy, attempts int) (Matcher, error) {
	switch policy {
	case MatchingUniformOppositeSex:
		if attempts < 1 {
			attempts = 1
		}
		return UniformOppositeSexMatcher{Attempts: attempts}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported matching policy %q", ErrInvalidParameters, policy)
	}
}

// UniformOppositeSexMatcher draws agents uniformly at random and accepts the
// first alive, opposite-sex agent not already partnered with the seeker. It
// gives up after Attempts draws.
type UniformOppositeSexMatcher struct {
	Attempts int
}

func (m UniformOppositeSexMatcher) Match(pop *Population, seeker *Agent, s Sampler) (AgentID, bool) {
	n := pop.Len()
	if n < 2 {
		return 0, false
	}
	for i := 0; i < m.Attempts; i++ {
		candidate := pop.Agent(AgentID(s.IntN(n)))
		if eligiblePartner(seeker, candidate) {
			return candidate.ID, true
		}
	}
	return 0, false
}

func eligiblePartner(seeker, candidate *Agent) bool {
	return candidate != nil &&
		candidate.ID != seeker.ID &&
		candidate.Alive &&
		candidate.Sex == seeker.Sex.Opposite() &&
		!seeker.HasPartner(candidate.ID)
}
