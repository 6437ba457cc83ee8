package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int              `toml:"version"`
	Scenarios []scenarioSchema `toml:"scenarios"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported scenarios schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type scenarioSchema struct {
	Name        string           `toml:"name"`
	Description string           `toml:"description,omitempty"`
	UpdatedAt   string           `toml:"updated_at,omitempty"`
	Parameters  parametersSchema `toml:"parameters"`
}

type parametersSchema struct {
	NumYears             float64   `toml:"num_years"`
	TimeStep             float64   `toml:"time_step"`
	StartDate            float64   `toml:"start_date"`
	MeanTimeUntilPartner float64   `toml:"mean_time_until_partner"`
	MeanPartnershipTime  float64   `toml:"mean_partnership_time"`
	MeanTimeConcurrent   float64   `toml:"mean_time_concurrent"`
	MeanTimeSex          float64   `toml:"mean_time_sex"`
	PreferenceFIFS       float64   `toml:"preference_fifs"`
	MeanRiskHetMaleSex   float64   `toml:"mean_risk_het_male_sex"`
	MeanRiskHetFemaleSex float64   `toml:"mean_risk_het_female_sex"`
	LeaveAcuteInfection  float64   `toml:"leave_acute_infection"`
	InitialStageP        float64   `toml:"initial_stage_p"`
	StageMortality       []float64 `toml:"stage_mortality,omitempty"`
	FormationModel       string    `toml:"formation_model,omitempty"`
	InfectionModel       string    `toml:"infection_model,omitempty"`
	MatchingPolicy       string    `toml:"matching_policy,omitempty"`
	MatchAttempts        int       `toml:"match_attempts,omitempty"`
}
