package domain

import "fmt"

// StepStats counts the events of one step.
type StepStats struct {
	Breakups     int
	Formations   int
	Contacts     int
	Infections   int
	Progressions int
	Deaths       int
}

func (s *StepStats) Add(other StepStats) {
	s.Breakups += other.Breakups
	s.Formations += other.Formations
	s.Contacts += other.Contacts
	s.Infections += other.Infections
	s.Progressions += other.Progressions
	s.Deaths += other.Deaths
}

// Stepper runs the per-agent event pipeline over a population.
type Stepper struct {
	params  Parameters
	matcher Matcher
}

func NewStepper(params Parameters) (*Stepper, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	matcher, err := NewMatcher(params.MatchingPolicy, params.MatchAttempts)
	if err != nil {
		return nil, err
	}
	return &Stepper{params: params, matcher: matcher}, nil
}

// Step shuffles the processing order, takes the start-of-step prevalence
// snapshot and runs, for every alive agent in that order:
// breakup, formation, sexual contact, stage advance, infection risk, death
// and aging.
func (st *Stepper) Step(pop *Population, s Sampler) (StepStats, error) {
	var stats StepStats

	pop.Shuffle(s)
	snap := Aggregate(pop)

	for _, id := range pop.Order() {
		a := pop.Agent(id)
		if !a.Alive {
			continue
		}
		if err := st.stepAgent(a, pop, snap, s, &stats); err != nil {
			return stats, fmt.Errorf("agent %d: %w", a.ID, err)
		}
	}

	return stats, nil
}

func (st *Stepper) stepAgent(a *Agent, pop *Population, snap Snapshot, s Sampler, stats *StepStats) error {
	ended, err := a.BreakupEvent(pop, s)
	if err != nil {
		return err
	}
	if ended {
		stats.Breakups++
	}

	formed, err := a.FormPartnershipEvent(pop, s, st.params.FormationModel, st.matcher)
	if err != nil {
		return err
	}
	if formed {
		stats.Formations++
	}

	partner, infected, err := a.SexualContactEvent(pop, s, st.params.InfectionModel)
	if err != nil {
		return err
	}
	if partner != nil {
		stats.Contacts++
	}
	if infected {
		stats.Infections++
	}

	if a.StageAdvanceEvent(st.params.LeaveAcuteInfection, s) {
		stats.Progressions++
	}

	if st.params.InfectionModel == InfectionPopulationForce && a.InfectionRiskEvent(snap, s) {
		stats.Infections++
	}

	died, err := a.DeathEvent(st.params.StageMortality[a.Stage], pop, s)
	if err != nil {
		return err
	}
	if died {
		stats.Deaths++
		return nil
	}

	a.AgeEvent(st.params.TimeStep)
	return nil
}
