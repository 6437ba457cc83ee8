package application

import (
	"fmt"

	"github.com/nathangeffen/matchcmp/internal/domain"
)

const (
	DefaultSeed   uint64 = 23
	DefaultAgents        = 10000
)

type RunRequest struct {
	// ID identifies the run; a random one is assigned when empty.
	ID       domain.RunID
	Label    string
	Scenario string
	Seed     uint64
	Agents   int
	Params   domain.Parameters
	// StrictChecks verifies population invariants after every step.
	StrictChecks bool
	// Progress, when set, is called after every completed step.
	Progress func(done, total int)
}

func (r RunRequest) Validate() error {
	if r.Agents < 0 {
		return fmt.Errorf("%w: agents must not be negative, got %d", domain.ErrInvalidParameters, r.Agents)
	}
	return r.Params.Validate()
}

// ParameterOverrides replaces individual scenario parameters. Nil fields keep
// the scenario's value.
type ParameterOverrides struct {
	NumYears       *float64
	TimeStep       *float64
	StartDate      *float64
	FormationModel *domain.FormationModel
	InfectionModel *domain.InfectionModel
}

func (o ParameterOverrides) Apply(params domain.Parameters) domain.Parameters {
	if o.NumYears != nil {
		params.NumYears = *o.NumYears
	}
	if o.TimeStep != nil {
		params.TimeStep = *o.TimeStep
	}
	if o.StartDate != nil {
		params.StartDate = *o.StartDate
	}
	if o.FormationModel != nil {
		params.FormationModel = *o.FormationModel
	}
	if o.InfectionModel != nil {
		params.InfectionModel = *o.InfectionModel
	}
	return params
}
