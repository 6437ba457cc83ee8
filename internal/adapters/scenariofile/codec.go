// Package scenariofile reads and writes single scenarios as standalone TOML
// or YAML documents for sharing and import.
package scenariofile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nathangeffen/matchcmp/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown scenario format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
	}
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

type document struct {
	Name        string     `toml:"name" yaml:"name"`
	Description string     `toml:"description,omitempty" yaml:"description,omitempty"`
	Parameters  parameters `toml:"parameters" yaml:"parameters"`
}

type parameters struct {
	NumYears             float64   `toml:"num_years" yaml:"num_years"`
	TimeStep             float64   `toml:"time_step" yaml:"time_step"`
	StartDate            float64   `toml:"start_date" yaml:"start_date"`
	MeanTimeUntilPartner float64   `toml:"mean_time_until_partner" yaml:"mean_time_until_partner"`
	MeanPartnershipTime  float64   `toml:"mean_partnership_time" yaml:"mean_partnership_time"`
	MeanTimeConcurrent   float64   `toml:"mean_time_concurrent" yaml:"mean_time_concurrent"`
	MeanTimeSex          float64   `toml:"mean_time_sex" yaml:"mean_time_sex"`
	PreferenceFIFS       float64   `toml:"preference_fifs" yaml:"preference_fifs"`
	MeanRiskHetMaleSex   float64   `toml:"mean_risk_het_male_sex" yaml:"mean_risk_het_male_sex"`
	MeanRiskHetFemaleSex float64   `toml:"mean_risk_het_female_sex" yaml:"mean_risk_het_female_sex"`
	LeaveAcuteInfection  float64   `toml:"leave_acute_infection" yaml:"leave_acute_infection"`
	InitialStageP        float64   `toml:"initial_stage_p" yaml:"initial_stage_p"`
	StageMortality       []float64 `toml:"stage_mortality" yaml:"stage_mortality"`
	FormationModel       string    `toml:"formation_model" yaml:"formation_model"`
	InfectionModel       string    `toml:"infection_model" yaml:"infection_model"`
	MatchingPolicy       string    `toml:"matching_policy" yaml:"matching_policy"`
	MatchAttempts        int       `toml:"match_attempts" yaml:"match_attempts"`
}

func Encode(w io.Writer, scenario domain.Scenario, format Format) error {
	doc := toDocument(scenario)

	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode scenario toml: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode scenario yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode scenario yaml: %w", err)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}

	return nil
}

// Decode reads one scenario. Fields missing from the document keep the
// default parameter values; unknown fields are rejected.
func Decode(r io.Reader, format Format) (domain.Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("read scenario: %w", err)
	}

	doc := toDocument(domain.Scenario{Params: domain.DefaultParameters()})
	doc.Parameters.StageMortality = nil

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return domain.Scenario{}, fmt.Errorf("decode scenario toml: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return domain.Scenario{}, fmt.Errorf("decode scenario yaml: %w", err)
		}
	default:
		return domain.Scenario{}, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}

	if len(doc.Parameters.StageMortality) > domain.NumStages {
		return domain.Scenario{}, fmt.Errorf("%w: stage_mortality has %d entries, at most %d allowed",
			domain.ErrInvalidParameters, len(doc.Parameters.StageMortality), domain.NumStages)
	}

	return fromDocument(doc), nil
}

func toDocument(s domain.Scenario) document {
	p := s.Params
	return document{
		Name:        s.Name,
		Description: s.Description,
		Parameters: parameters{
			NumYears:             p.NumYears,
			TimeStep:             p.TimeStep,
			StartDate:            p.StartDate,
			MeanTimeUntilPartner: p.MeanTimeUntilPartner,
			MeanPartnershipTime:  p.MeanPartnershipTime,
			MeanTimeConcurrent:   p.MeanTimeConcurrent,
			MeanTimeSex:          p.MeanTimeSex,
			PreferenceFIFS:       p.PreferenceFIFS,
			MeanRiskHetMaleSex:   p.MeanRiskHetMaleSex,
			MeanRiskHetFemaleSex: p.MeanRiskHetFemaleSex,
			LeaveAcuteInfection:  p.LeaveAcuteInfection,
			InitialStageP:        p.InitialStageP,
			StageMortality:       append([]float64(nil), p.StageMortality[:]...),
			FormationModel:       string(p.FormationModel),
			InfectionModel:       string(p.InfectionModel),
			MatchingPolicy:       string(p.MatchingPolicy),
			MatchAttempts:        p.MatchAttempts,
		},
	}
}

func fromDocument(doc document) domain.Scenario {
	in := doc.Parameters
	p := domain.Parameters{
		NumYears:             in.NumYears,
		TimeStep:             in.TimeStep,
		StartDate:            in.StartDate,
		MeanTimeUntilPartner: in.MeanTimeUntilPartner,
		MeanPartnershipTime:  in.MeanPartnershipTime,
		MeanTimeConcurrent:   in.MeanTimeConcurrent,
		MeanTimeSex:          in.MeanTimeSex,
		PreferenceFIFS:       in.PreferenceFIFS,
		MeanRiskHetMaleSex:   in.MeanRiskHetMaleSex,
		MeanRiskHetFemaleSex: in.MeanRiskHetFemaleSex,
		LeaveAcuteInfection:  in.LeaveAcuteInfection,
		InitialStageP:        in.InitialStageP,
		FormationModel:       domain.FormationModel(in.FormationModel),
		InfectionModel:       domain.InfectionModel(in.InfectionModel),
		MatchingPolicy:       domain.MatchingPolicy(in.MatchingPolicy),
		MatchAttempts:        in.MatchAttempts,
	}
	copy(p.StageMortality[:], in.StageMortality)

	return domain.Scenario{Name: doc.Name, Description: doc.Description, Params: p}
}
