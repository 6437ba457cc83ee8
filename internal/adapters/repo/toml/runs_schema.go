package toml

import "fmt"

const currentRunsSchemaVersion = 1

type runsFileSchema struct {
	Version int         `toml:"version"`
	Runs    []runSchema `toml:"runs"`
}

func (s *runsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentRunsSchemaVersion
	}
}

func (s runsFileSchema) validateVersion() error {
	if s.Version > currentRunsSchemaVersion {
		return fmt.Errorf("unsupported runs schema version %d (current %d)", s.Version, currentRunsSchemaVersion)
	}

	return nil
}

type runSchema struct {
	ID         string           `toml:"id"`
	Label      string           `toml:"label,omitempty"`
	Scenario   string           `toml:"scenario,omitempty"`
	Seed       string           `toml:"seed"`
	Agents     int              `toml:"agents"`
	Iterations int              `toml:"iterations"`
	StartedAt  string           `toml:"started_at"`
	FinishedAt string           `toml:"finished_at"`
	Parameters parametersSchema `toml:"parameters"`
	Begin      summarySchema    `toml:"begin"`
	End        summarySchema    `toml:"end"`
}

type summarySchema struct {
	Label           string  `toml:"label"`
	Agents          int     `toml:"agents"`
	Males           int     `toml:"males"`
	Females         int     `toml:"females"`
	AliveMales      *int    `toml:"alive_males"`
	AliveFemales    *int    `toml:"alive_females"`
	Youngest        float64 `toml:"youngest"`
	Oldest          float64 `toml:"oldest"`
	MeanAge         float64 `toml:"mean_age"`
	Stages          []int   `toml:"stages"`
	InfectedMales   int     `toml:"infected_males"`
	InfectedFemales int     `toml:"infected_females"`
}
