package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/nathangeffen/matchcmp/internal/stochastic"
)

// Time units, in years.
const (
	YearInDays = 365.25
	Year       = 1.0
	Month      = Year / 12.0
	Week       = Year / 52.0
	Day        = Year / YearInDays
	Hour       = Day / 24.0
)

type FormationModel string

const (
	// FormationSimple forms with probability partner_forming/(partners+1).
	FormationSimple FormationModel = "simple"
	// FormationExtended forms with partner_forming when single, else concurrency.
	FormationExtended FormationModel = "extended"
)

type InfectionModel string

const (
	// InfectionPopulationForce uses opposite-sex prevalence as the exposure.
	InfectionPopulationForce InfectionModel = "population"
	// InfectionPartnerContact transmits only during sexual contact with an
	// infected partner.
	InfectionPartnerContact InfectionModel = "contact"
)

type MatchingPolicy string

const (
	MatchingUniformOppositeSex MatchingPolicy = "uniform_opposite_sex"
)

// Parameters is the validated configuration of one run. Times are in years.
type Parameters struct {
	NumYears  float64
	TimeStep  float64
	StartDate float64

	MeanTimeUntilPartner float64
	MeanPartnershipTime  float64
	MeanTimeConcurrent   float64
	MeanTimeSex          float64
	PreferenceFIFS       float64
	MeanRiskHetMaleSex   float64
	MeanRiskHetFemaleSex float64
	LeaveAcuteInfection  float64

	// InitialStageP is the success probability of the geometric draw that
	// seeds each agent's starting stage.
	InitialStageP float64
	// StageMortality is the probability of death by stage, applied once per
	// step as given. It is not rescaled when TimeStep changes. An agent that
	// dies is not aged for that step.
	StageMortality [NumStages]float64

	FormationModel FormationModel
	InfectionModel InfectionModel
	MatchingPolicy MatchingPolicy
	MatchAttempts  int
}

func DefaultParameters() Parameters {
	return Parameters{
		NumYears:             2.0,
		TimeStep:             Day,
		StartDate:            2015.0,
		MeanTimeUntilPartner: Year / 4.0,
		MeanPartnershipTime:  Year / 4.0,
		MeanTimeConcurrent:   Year,
		MeanTimeSex:          Day,
		PreferenceFIFS:       0.5,
		MeanRiskHetMaleSex:   0.01,
		MeanRiskHetFemaleSex: 0.02,
		LeaveAcuteInfection:  0.0238095238,
		InitialStageP:        0.9,
		FormationModel:       FormationSimple,
		InfectionModel:       InfectionPopulationForce,
		MatchingPolicy:       MatchingUniformOppositeSex,
		MatchAttempts:        100,
	}
}

// NumIterations is floor(NumYears / TimeStep).
func (p Parameters) NumIterations() int {
	if !(p.TimeStep > 0) || !(p.NumYears > 0) {
		return 0
	}
	return int(math.Floor(p.NumYears / p.TimeStep))
}

// DateAt returns the calendar date of step i.
func (p Parameters) DateAt(i int) float64 {
	return p.StartDate + p.TimeStep*float64(i)
}

func (p Parameters) Validate() error {
	var problems []error

	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	probability := func(name string, v float64) {
		if !(v >= 0 && v <= 1) {
			problems = append(problems, fmt.Errorf("%s must be in [0,1], got %v", name, v))
		}
	}
	openUnit := func(name string, v float64) {
		if !(v > 0 && v < 1) {
			problems = append(problems, fmt.Errorf("%s must be in (0,1), got %v", name, v))
		}
	}

	positive("num_years", p.NumYears)
	positive("time_step", p.TimeStep)
	if math.IsNaN(p.StartDate) || math.IsInf(p.StartDate, 0) {
		problems = append(problems, fmt.Errorf("start_date must be finite, got %v", p.StartDate))
	}
	positive("mean_time_until_partner", p.MeanTimeUntilPartner)
	positive("mean_partnership_time", p.MeanPartnershipTime)
	positive("mean_time_concurrent", p.MeanTimeConcurrent)
	positive("mean_time_sex", p.MeanTimeSex)
	openUnit("preference_fifs", p.PreferenceFIFS)
	openUnit("mean_risk_het_male_sex", p.MeanRiskHetMaleSex)
	openUnit("mean_risk_het_female_sex", p.MeanRiskHetFemaleSex)
	probability("leave_acute_infection", p.LeaveAcuteInfection)
	if !(p.InitialStageP > 0 && p.InitialStageP <= 1) {
		problems = append(problems, fmt.Errorf("initial_stage_p must be in (0,1], got %v", p.InitialStageP))
	}
	for stage, hazard := range p.StageMortality {
		probability(fmt.Sprintf("stage_mortality[%d]", stage), hazard)
	}

	switch p.FormationModel {
	case FormationSimple, FormationExtended:
	default:
		problems = append(problems, fmt.Errorf("unsupported formation model %q", p.FormationModel))
	}
	switch p.InfectionModel {
	case InfectionPopulationForce, InfectionPartnerContact:
	default:
		problems = append(problems, fmt.Errorf("unsupported infection model %q", p.InfectionModel))
	}
	switch p.MatchingPolicy {
	case MatchingUniformOppositeSex:
	default:
		problems = append(problems, fmt.Errorf("unsupported matching policy %q", p.MatchingPolicy))
	}
	if p.MatchAttempts < 1 {
		problems = append(problems, fmt.Errorf("match_attempts must be at least 1, got %d", p.MatchAttempts))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, errors.Join(problems...))
	}
	return nil
}

// attributeShapes holds the Beta shapes every agent's behavioural attributes
// are drawn from. They depend only on the run parameters.
type attributeShapes struct {
	stickiness  stochastic.Shape
	forming     stochastic.Shape
	concurrency stochastic.Shape
	drive       stochastic.Shape
	fifs        stochastic.Shape
	infection   [2]stochastic.Shape
}

func newAttributeShapes(p Parameters) (attributeShapes, error) {
	var (
		shapes attributeShapes
		err    error
	)

	if shapes.stickiness, err = stochastic.ShapeFromMeanTime(p.MeanPartnershipTime, p.TimeStep); err != nil {
		return attributeShapes{}, fmt.Errorf("%w: relationship stickiness: %w", ErrInvalidParameters, err)
	}
	if shapes.forming, err = stochastic.ShapeFromMeanTime(p.MeanTimeUntilPartner, p.TimeStep); err != nil {
		return attributeShapes{}, fmt.Errorf("%w: partner forming: %w", ErrInvalidParameters, err)
	}
	if shapes.concurrency, err = stochastic.ShapeFromMeanTime(p.MeanTimeConcurrent, p.TimeStep); err != nil {
		return attributeShapes{}, fmt.Errorf("%w: concurrency: %w", ErrInvalidParameters, err)
	}
	if shapes.drive, err = stochastic.ShapeFromMeanTime(p.MeanTimeSex, p.TimeStep); err != nil {
		return attributeShapes{}, fmt.Errorf("%w: sexual drive: %w", ErrInvalidParameters, err)
	}
	if shapes.fifs, err = stochastic.ShapeFromMean(p.PreferenceFIFS); err != nil {
		return attributeShapes{}, fmt.Errorf("%w: fifs preference: %w", ErrInvalidParameters, err)
	}
	if shapes.infection[Male], err = stochastic.ShapeFromMean(p.MeanRiskHetMaleSex); err != nil {
		return attributeShapes{}, fmt.Errorf("%w: male infection risk: %w", ErrInvalidParameters, err)
	}
	if shapes.infection[Female], err = stochastic.ShapeFromMean(p.MeanRiskHetFemaleSex); err != nil {
		return attributeShapes{}, fmt.Errorf("%w: female infection risk: %w", ErrInvalidParameters, err)
	}

	return shapes, nil
}
