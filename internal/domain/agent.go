package domain

import "fmt"

const (
	initialAgeMin = 15.0
	initialAgeMax = 20.0
)

// AgentID is an agent's handle into its Population.
type AgentID int

type Agent struct {
	ID    AgentID
	Sex   Sex
	Age   float64
	Stage Stage
	Alive bool
	// Partners is ordered by formation time; the newest partner is last.
	Partners []AgentID

	RelationshipStickiness float64
	PartnerForming         float64
	Concurrency            float64
	SexualDrive            float64
	PreferenceFIFS         float64
	ForceInfection         float64
}

// NewAgent draws a new agent's demographic, disease and behavioural
// attributes from s.
func NewAgent(id AgentID, params Parameters, s Sampler) (*Agent, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	shapes, err := newAttributeShapes(params)
	if err != nil {
		return nil, err
	}
	return newAgent(id, params.InitialStageP, shapes, s), nil
}

func newAgent(id AgentID, initialStageP float64, shapes attributeShapes, s Sampler) *Agent {
	a := &Agent{ID: id, Alive: true}

	a.Sex = Male
	if s.Bernoulli(0.5) {
		a.Sex = Female
	}
	a.Age = s.Uniform(initialAgeMin, initialAgeMax)
	a.Stage = Stage(s.GeometricCapped(initialStageP, int(MaxStage)))

	a.RelationshipStickiness = s.Beta(shapes.stickiness)
	a.PartnerForming = s.Beta(shapes.forming)
	a.Concurrency = s.Beta(shapes.concurrency)
	a.SexualDrive = s.Beta(shapes.drive)
	a.PreferenceFIFS = s.Beta(shapes.fifs)
	a.ForceInfection = s.Beta(shapes.infection[a.Sex])

	return a
}

func (a *Agent) Infected() bool {
	return a.Stage.Infected()
}

func (a *Agent) NumPartners() int {
	return len(a.Partners)
}

func (a *Agent) HasPartner(id AgentID) bool {
	for _, p := range a.Partners {
		if p == id {
			return true
		}
	}
	return false
}

// BreakupEvent ends the most recently formed partnership with probability
// stickiness/partners.
func (a *Agent) BreakupEvent(pop *Population, s Sampler) (bool, error) {
	n := len(a.Partners)
	if n == 0 {
		return false, nil
	}
	if s.Uniform(0, 1) >= a.RelationshipStickiness/float64(n) {
		return false, nil
	}
	if err := pop.Unlink(a.ID, a.Partners[n-1]); err != nil {
		return false, err
	}
	return true, nil
}

// FormationProbability is the per-step chance of seeking a new partner.
func (a *Agent) FormationProbability(model FormationModel) float64 {
	n := len(a.Partners)
	if model == FormationExtended {
		if n == 0 {
			return a.PartnerForming
		}
		return a.Concurrency
	}
	return a.PartnerForming / float64(n+1)
}

// FormPartnershipEvent seeks a new partner through m and, when one is found,
// appends the partnership to both agents.
func (a *Agent) FormPartnershipEvent(pop *Population, s Sampler, model FormationModel, m Matcher) (bool, error) {
	if s.Uniform(0, 1) >= a.FormationProbability(model) {
		return false, nil
	}
	partner, ok := m.Match(pop, a, s)
	if !ok {
		return false, nil
	}
	if err := pop.Link(a.ID, partner); err != nil {
		return false, err
	}
	return true, nil
}

// ContactPartnerIndex picks which partner, counted from the oldest, is chosen
// for sexual contact. A high FIFS preference favours the oldest partnership.
func (a *Agent) ContactPartnerIndex(s Sampler) int {
	last := len(a.Partners) - 1
	idx := s.GeometricCapped(a.PreferenceFIFS, last)
	if idx > last {
		idx = last
	}
	return idx
}

// SexualContactEvent returns the partner contacted this step, or nil. Under
// the partner-contact model transmission is evaluated for the pair and
// infected reports a new infection.
func (a *Agent) SexualContactEvent(pop *Population, s Sampler, model InfectionModel) (partner *Agent, infected bool, err error) {
	if len(a.Partners) == 0 {
		return nil, false, nil
	}
	if s.Uniform(0, 1) >= a.SexualDrive {
		return nil, false, nil
	}

	id := a.Partners[a.ContactPartnerIndex(s)]
	partner = pop.Agent(id)
	if partner == nil {
		return nil, false, fmt.Errorf("%w: agent %d has unknown partner %d", ErrInvariantViolation, a.ID, id)
	}

	if model == InfectionPartnerContact {
		infected = transmit(a, partner, s)
	}
	return partner, infected, nil
}

// transmit evaluates per-contact transmission for a serodiscordant pair using
// the susceptible agent's force of infection.
func transmit(a, b *Agent, s Sampler) bool {
	if a.Infected() == b.Infected() {
		return false
	}
	susceptible := a
	if a.Infected() {
		susceptible = b
	}
	if s.Uniform(0, 1) < susceptible.ForceInfection {
		susceptible.Stage = StageAcute
		return true
	}
	return false
}

// StageAdvanceEvent moves an acute infection to the first chronic stage.
// Later chronic stages are not advanced.
func (a *Agent) StageAdvanceEvent(probLeaveAcute float64, s Sampler) bool {
	if a.Stage != StageAcute {
		return false
	}
	if s.Uniform(0, 1) < probLeaveAcute {
		a.Stage++
		return true
	}
	return false
}

// InfectionRiskEvent is the population-force infection model: an uninfected
// agent is infected with probability
// force_infection * partner_forming * opposite-sex prevalence.
func (a *Agent) InfectionRiskEvent(snap Snapshot, s Sampler) bool {
	if a.Infected() {
		return false
	}

	risk := 0.0
	if prevalence, ok := snap.OppositeSexPrevalence(a.Sex).Value(); ok {
		risk = a.ForceInfection * a.PartnerForming * prevalence
	}
	if s.Uniform(0, 1) < risk {
		a.Stage = StageAcute
		return true
	}
	return false
}

// DeathEvent kills the agent with probability hazard and dissolves all of its
// partnerships. No draw is made when hazard is zero.
func (a *Agent) DeathEvent(hazard float64, pop *Population, s Sampler) (bool, error) {
	if hazard <= 0 || !a.Alive {
		return false, nil
	}
	if s.Uniform(0, 1) >= hazard {
		return false, nil
	}
	a.Alive = false
	if err := pop.DissolveAll(a.ID); err != nil {
		return true, err
	}
	return true, nil
}

func (a *Agent) AgeEvent(elapsed float64) {
	a.Age += elapsed
}
