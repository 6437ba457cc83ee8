package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/nathangeffen/matchcmp/internal/config"
	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/nathangeffen/matchcmp/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// RunRepository keeps the history of completed runs. Entries beyond the
// retention limit are dropped oldest first.
type RunRepository struct {
	path      string
	retention int
	mu        *sync.RWMutex
}

const DefaultRunRetention = 200

var _ ports.RunRepository = (*RunRepository)(nil)

func NewRunRepository(cfg *viper.Viper) (*RunRepository, error) {
	path, err := config.PathOrDefault(cfg, config.RunsPathKey, config.RunsFile)
	if err != nil {
		return nil, err
	}

	return &RunRepository{path: path, retention: DefaultRunRetention, mu: lockForPath(path)}, nil
}

func (r *RunRepository) Save(ctx context.Context, run domain.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toRunSchema(run)
	updated := false
	for i := range file.Runs {
		if file.Runs[i].ID == encoded.ID {
			file.Runs[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Runs = append(file.Runs, encoded)
	}
	if r.retention > 0 && len(file.Runs) > r.retention {
		file.Runs = file.Runs[len(file.Runs)-r.retention:]
	}

	return writeTOMLFile(r.path, file)
}

func (r *RunRepository) GetByID(ctx context.Context, id domain.RunID) (domain.Run, error) {
	if err := ctx.Err(); err != nil {
		return domain.Run{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Run{}, err
	}

	for _, entry := range file.Runs {
		if entry.ID == string(id) {
			return fromRunSchema(entry)
		}
	}

	return domain.Run{}, domain.ErrRunNotFound
}

func (r *RunRepository) List(ctx context.Context) ([]domain.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	runs := make([]domain.Run, 0, len(file.Runs))
	for _, entry := range file.Runs {
		run, err := fromRunSchema(entry)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, nil
}

func (r *RunRepository) readSchema() (runsFileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return runsFileSchema{Version: currentRunsSchemaVersion}, nil
		}
		return runsFileSchema{}, fmt.Errorf("read runs file: %w", err)
	}

	var file runsFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return runsFileSchema{}, fmt.Errorf("decode runs file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return runsFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func toRunSchema(run domain.Run) runSchema {
	return runSchema{
		ID:         string(run.ID),
		Label:      run.Label,
		Scenario:   run.Scenario,
		Seed:       strconv.FormatUint(run.Seed, 10),
		Agents:     run.Agents,
		Iterations: run.Iterations,
		StartedAt:  formatTime(run.StartedAt),
		FinishedAt: formatTime(run.FinishedAt),
		Parameters: toParametersSchema(run.Params),
		Begin:      toSummarySchema(run.Begin),
		End:        toSummarySchema(run.End),
	}
}

func fromRunSchema(schema runSchema) (domain.Run, error) {
	seed, err := strconv.ParseUint(schema.Seed, 10, 64)
	if err != nil {
		return domain.Run{}, fmt.Errorf("decode run %s seed: %w", schema.ID, err)
	}

	begin := fromSummarySchema(schema.Begin, nil)
	end := fromSummarySchema(schema.End, &begin)

	return domain.Run{
		ID:         domain.RunID(schema.ID),
		Label:      schema.Label,
		Scenario:   schema.Scenario,
		Seed:       seed,
		Agents:     schema.Agents,
		Iterations: schema.Iterations,
		Params:     fromParametersSchema(schema.Parameters),
		StartedAt:  parseTime(schema.StartedAt),
		FinishedAt: parseTime(schema.FinishedAt),
		Begin:      begin,
		End:        end,
	}, nil
}

func toSummarySchema(summary domain.Summary) summarySchema {
	return summarySchema{
		Label:           summary.Label,
		Agents:          summary.Agents,
		Males:           summary.Males,
		Females:         summary.Females,
		AliveMales:      &summary.AliveMales,
		AliveFemales:    &summary.AliveFemales,
		Youngest:        summary.Youngest,
		Oldest:          summary.Oldest,
		MeanAge:         summary.MeanAge,
		Stages:          append([]int(nil), summary.Stages[:]...),
		InfectedMales:   summary.InfectedMales,
		InfectedFemales: summary.InfectedFemales,
	}
}

func fromSummarySchema(schema summarySchema, prior *domain.Summary) domain.Summary {
	summary := domain.Summary{
		Label:           schema.Label,
		Agents:          schema.Agents,
		Males:           schema.Males,
		Females:         schema.Females,
		Youngest:        schema.Youngest,
		Oldest:          schema.Oldest,
		MeanAge:         schema.MeanAge,
		InfectedMales:   schema.InfectedMales,
		InfectedFemales: schema.InfectedFemales,
	}
	copy(summary.Stages[:], schema.Stages)

	// Entries written before alive counts were stored had no deaths recorded.
	summary.AliveMales = summary.Males
	if schema.AliveMales != nil {
		summary.AliveMales = *schema.AliveMales
	}
	summary.AliveFemales = summary.Females
	if schema.AliveFemales != nil {
		summary.AliveFemales = *schema.AliveFemales
	}
	summary.Derive(prior)

	return summary
}
