package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/nathangeffen/matchcmp/internal/config"
	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/nathangeffen/matchcmp/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	fileMode        = 0o600
	dirMode         = 0o700
	tempFilePattern = ".partners-*.toml.tmp"
)

// ScenarioRepository stores named parameter sets in a single TOML file.
type ScenarioRepository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.ScenarioRepository = (*ScenarioRepository)(nil)

func NewScenarioRepository(cfg *viper.Viper) (*ScenarioRepository, error) {
	path, err := config.PathOrDefault(cfg, config.ScenariosPathKey, config.ScenariosFile)
	if err != nil {
		return nil, err
	}

	return &ScenarioRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *ScenarioRepository) Path() string {
	return r.path
}

func (r *ScenarioRepository) Save(ctx context.Context, scenario domain.Scenario) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toScenarioSchema(scenario)
	updated := false
	for i := range file.Scenarios {
		if file.Scenarios[i].Name == encoded.Name {
			file.Scenarios[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Scenarios = append(file.Scenarios, encoded)
	}
	sort.Slice(file.Scenarios, func(i, j int) bool {
		return file.Scenarios[i].Name < file.Scenarios[j].Name
	})

	if err := ctx.Err(); err != nil {
		return err
	}

	return writeTOMLFile(r.path, file)
}

func (r *ScenarioRepository) GetByName(ctx context.Context, name string) (domain.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return domain.Scenario{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Scenario{}, err
	}

	for _, entry := range file.Scenarios {
		if entry.Name == name {
			return fromScenarioSchema(entry), nil
		}
	}

	return domain.Scenario{}, domain.ErrScenarioNotFound
}

func (r *ScenarioRepository) List(ctx context.Context) ([]domain.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	scenarios := make([]domain.Scenario, 0, len(file.Scenarios))
	for _, entry := range file.Scenarios {
		scenarios = append(scenarios, fromScenarioSchema(entry))
	}

	return scenarios, nil
}

func (r *ScenarioRepository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read scenarios file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode scenarios file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

// writeTOMLFile replaces path atomically through a temp file in the same
// directory.
func writeTOMLFile(path string, file any) error {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tempFile.Chmod(fileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}

	cleanup = false

	return nil
}

func toScenarioSchema(scenario domain.Scenario) scenarioSchema {
	return scenarioSchema{
		Name:        scenario.Name,
		Description: scenario.Description,
		UpdatedAt:   formatTime(scenario.UpdatedAt),
		Parameters:  toParametersSchema(scenario.Params),
	}
}

func fromScenarioSchema(schema scenarioSchema) domain.Scenario {
	return domain.Scenario{
		Name:        schema.Name,
		Description: schema.Description,
		UpdatedAt:   parseTime(schema.UpdatedAt),
		Params:      fromParametersSchema(schema.Parameters),
	}
}

func toParametersSchema(p domain.Parameters) parametersSchema {
	schema := parametersSchema{
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
		FormationModel:       string(p.FormationModel),
		InfectionModel:       string(p.InfectionModel),
		MatchingPolicy:       string(p.MatchingPolicy),
		MatchAttempts:        p.MatchAttempts,
	}
	for _, hazard := range p.StageMortality {
		if hazard != 0 {
			schema.StageMortality = append([]float64(nil), p.StageMortality[:]...)
			break
		}
	}
	return schema
}

// fromParametersSchema fills strategy fields left empty in older files with
// the defaults.
func fromParametersSchema(schema parametersSchema) domain.Parameters {
	defaults := domain.DefaultParameters()
	p := domain.Parameters{
		NumYears:             schema.NumYears,
		TimeStep:             schema.TimeStep,
		StartDate:            schema.StartDate,
		MeanTimeUntilPartner: schema.MeanTimeUntilPartner,
		MeanPartnershipTime:  schema.MeanPartnershipTime,
		MeanTimeConcurrent:   schema.MeanTimeConcurrent,
		MeanTimeSex:          schema.MeanTimeSex,
		PreferenceFIFS:       schema.PreferenceFIFS,
		MeanRiskHetMaleSex:   schema.MeanRiskHetMaleSex,
		MeanRiskHetFemaleSex: schema.MeanRiskHetFemaleSex,
		LeaveAcuteInfection:  schema.LeaveAcuteInfection,
		InitialStageP:        schema.InitialStageP,
		FormationModel:       domain.FormationModel(schema.FormationModel),
		InfectionModel:       domain.InfectionModel(schema.InfectionModel),
		MatchingPolicy:       domain.MatchingPolicy(schema.MatchingPolicy),
		MatchAttempts:        schema.MatchAttempts,
	}
	copy(p.StageMortality[:], schema.StageMortality)

	if p.FormationModel == "" {
		p.FormationModel = defaults.FormationModel
	}
	if p.InfectionModel == "" {
		p.InfectionModel = defaults.InfectionModel
	}
	if p.MatchingPolicy == "" {
		p.MatchingPolicy = defaults.MatchingPolicy
	}
	if p.MatchAttempts == 0 {
		p.MatchAttempts = defaults.MatchAttempts
	}
	if p.InitialStageP == 0 {
		p.InitialStageP = defaults.InitialStageP
	}

	return p
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
