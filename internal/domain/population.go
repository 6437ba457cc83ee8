package domain

import (
	"errors"
	"fmt"
)

// Population owns the agents of a run. Agents are addressed by ID; the
// processing order is kept separately so shuffling never invalidates the
// partner handles agents hold.
type Population struct {
	agents []*Agent
	order  []AgentID
}

// NewPopulation creates size agents with IDs 0..size-1.
func NewPopulation(size int, params Parameters, s Sampler) (*Population, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: population size must not be negative, got %d", ErrInvalidParameters, size)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	shapes, err := newAttributeShapes(params)
	if err != nil {
		return nil, err
	}

	agents := make([]*Agent, size)
	for i := range agents {
		agents[i] = newAgent(AgentID(i), params.InitialStageP, shapes, s)
	}

	return newPopulation(agents), nil
}

// PopulationOf wraps existing agents. Agent IDs must equal their index.
func PopulationOf(agents []*Agent) (*Population, error) {
	for i, a := range agents {
		if a == nil {
			return nil, fmt.Errorf("agent at index %d is nil", i)
		}
		if a.ID != AgentID(i) {
			return nil, fmt.Errorf("agent at index %d has id %d", i, a.ID)
		}
	}

	pop := newPopulation(agents)
	if err := pop.CheckInvariants(); err != nil {
		return nil, err
	}
	return pop, nil
}

func newPopulation(agents []*Agent) *Population {
	order := make([]AgentID, len(agents))
	for i := range order {
		order[i] = AgentID(i)
	}
	return &Population{agents: agents, order: order}
}

func (p *Population) Len() int {
	return len(p.agents)
}

// Agent returns the agent with id, or nil.
func (p *Population) Agent(id AgentID) *Agent {
	if id < 0 || int(id) >= len(p.agents) {
		return nil
	}
	return p.agents[id]
}

// Agents returns the agents in ID order. The slice must not be modified.
func (p *Population) Agents() []*Agent {
	return p.agents
}

// Order returns the current processing order.
func (p *Population) Order() []AgentID {
	return p.order
}

func (p *Population) Shuffle(s Sampler) {
	s.Shuffle(len(p.order), func(i, j int) {
		p.order[i], p.order[j] = p.order[j], p.order[i]
	})
}

// Link appends b to a's partners and a to b's partners.
func (p *Population) Link(a, b AgentID) error {
	left, right := p.Agent(a), p.Agent(b)
	if left == nil || right == nil {
		return fmt.Errorf("%w: link %d-%d: unknown agent", ErrInvariantViolation, a, b)
	}
	if a == b {
		return fmt.Errorf("%w: link %d-%d: self partnership", ErrInvariantViolation, a, b)
	}
	if left.HasPartner(b) || right.HasPartner(a) {
		return fmt.Errorf("%w: link %d-%d: already partners", ErrInvariantViolation, a, b)
	}

	left.Partners = append(left.Partners, b)
	right.Partners = append(right.Partners, a)
	return nil
}

// Unlink removes the partnership between a and b from both agents, keeping
// the order of the remaining partners.
func (p *Population) Unlink(a, b AgentID) error {
	left, right := p.Agent(a), p.Agent(b)
	if left == nil || right == nil {
		return fmt.Errorf("%w: unlink %d-%d: unknown agent", ErrInvariantViolation, a, b)
	}

	var ok bool
	if left.Partners, ok = removePartner(left.Partners, b); !ok {
		return fmt.Errorf("%w: unlink %d-%d: %d not in partners of %d", ErrInvariantViolation, a, b, b, a)
	}
	if right.Partners, ok = removePartner(right.Partners, a); !ok {
		return fmt.Errorf("%w: unlink %d-%d: %d not in partners of %d", ErrInvariantViolation, a, b, a, b)
	}
	return nil
}

// DissolveAll ends every partnership of id.
func (p *Population) DissolveAll(id AgentID) error {
	a := p.Agent(id)
	if a == nil {
		return fmt.Errorf("%w: dissolve %d: unknown agent", ErrInvariantViolation, id)
	}
	for len(a.Partners) > 0 {
		if err := p.Unlink(id, a.Partners[len(a.Partners)-1]); err != nil {
			return err
		}
	}
	return nil
}

// Partnerships counts distinct partnerships.
func (p *Population) Partnerships() int {
	total := 0
	for _, a := range p.agents {
		total += len(a.Partners)
	}
	return total / 2
}

// CheckInvariants reports every violated population invariant.
func (p *Population) CheckInvariants() error {
	var problems []error
	for i, a := range p.agents {
		if a.ID != AgentID(i) {
			problems = append(problems, fmt.Errorf("agent at index %d has id %d", i, a.ID))
		}
		if !a.Sex.Valid() {
			problems = append(problems, fmt.Errorf("agent %d: invalid sex %d", a.ID, a.Sex))
		}
		if !a.Stage.Valid() {
			problems = append(problems, fmt.Errorf("agent %d: stage %d out of range", a.ID, a.Stage))
		}
		if a.Age < 0 {
			problems = append(problems, fmt.Errorf("agent %d: negative age %v", a.ID, a.Age))
		}
		for _, attr := range a.attributes() {
			if !(attr.value >= 0 && attr.value <= 1) {
				problems = append(problems, fmt.Errorf("agent %d: %s %v outside [0,1]", a.ID, attr.name, attr.value))
			}
		}

		seen := make(map[AgentID]struct{}, len(a.Partners))
		for _, id := range a.Partners {
			if id == a.ID {
				problems = append(problems, fmt.Errorf("agent %d: partnered with itself", a.ID))
				continue
			}
			if _, dup := seen[id]; dup {
				problems = append(problems, fmt.Errorf("agent %d: duplicate partner %d", a.ID, id))
				continue
			}
			seen[id] = struct{}{}

			other := p.Agent(id)
			if other == nil {
				problems = append(problems, fmt.Errorf("agent %d: unknown partner %d", a.ID, id))
				continue
			}
			if !other.HasPartner(a.ID) {
				problems = append(problems, fmt.Errorf("agent %d: partner %d does not list it", a.ID, id))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvariantViolation, errors.Join(problems...))
	}
	return nil
}

type namedAttribute struct {
	name  string
	value float64
}

// attributes lists the behavioural probabilities in a fixed order.
func (a *Agent) attributes() []namedAttribute {
	return []namedAttribute{
		{"relationship_stickiness", a.RelationshipStickiness},
		{"partner_forming", a.PartnerForming},
		{"concurrency", a.Concurrency},
		{"sexual_drive", a.SexualDrive},
		{"preference_fifs", a.PreferenceFIFS},
		{"force_infection", a.ForceInfection},
	}
}

func removePartner(partners []AgentID, id AgentID) ([]AgentID, bool) {
	for i := len(partners) - 1; i >= 0; i-- {
		if partners[i] == id {
			return append(partners[:i], partners[i+1:]...), true
		}
	}
	return partners, false
}
