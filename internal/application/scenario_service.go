package application

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/nathangeffen/matchcmp/internal/ports"
)

type ScenarioService struct {
	repo  ports.ScenarioRepository
	clock ports.Clock
}

func NewScenarioService(repo ports.ScenarioRepository, clock ports.Clock) *ScenarioService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &ScenarioService{repo: repo, clock: clock}
}

// Get returns the stored scenario name. The built-in default scenario is
// returned for DefaultScenarioName or an empty name unless one is stored.
func (s *ScenarioService) Get(ctx context.Context, name string) (domain.Scenario, error) {
	if name == "" {
		name = domain.DefaultScenarioName
	}

	scenario, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrScenarioNotFound) && name == domain.DefaultScenarioName {
			return domain.DefaultScenario(), nil
		}
		return domain.Scenario{}, fmt.Errorf("get scenario %q: %w", name, err)
	}

	return scenario, nil
}

// Resolve loads a scenario, applies overrides and validates the result.
func (s *ScenarioService) Resolve(ctx context.Context, name string, overrides ParameterOverrides) (domain.Scenario, error) {
	scenario, err := s.Get(ctx, name)
	if err != nil {
		return domain.Scenario{}, err
	}

	scenario.Params = overrides.Apply(scenario.Params)
	if err := scenario.Params.Validate(); err != nil {
		return domain.Scenario{}, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	return scenario, nil
}

// List returns stored scenarios sorted by name, including the built-in
// default when it has not been overridden.
func (s *ScenarioService) List(ctx context.Context) ([]domain.Scenario, error) {
	scenarios, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}

	hasDefault := false
	for _, scenario := range scenarios {
		if scenario.Name == domain.DefaultScenarioName {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		scenarios = append(scenarios, domain.DefaultScenario())
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].Name < scenarios[j].Name
	})

	return scenarios, nil
}

func (s *ScenarioService) Save(ctx context.Context, scenario domain.Scenario) (domain.Scenario, error) {
	if err := scenario.Validate(); err != nil {
		return domain.Scenario{}, err
	}

	scenario.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, scenario); err != nil {
		return domain.Scenario{}, fmt.Errorf("save scenario: %w", err)
	}

	return scenario, nil
}
