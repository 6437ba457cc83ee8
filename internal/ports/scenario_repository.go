package ports

import (
	"context"

	"github.com/nathangeffen/matchcmp/internal/domain"
)

type ScenarioRepository interface {
	GetByName(ctx context.Context, name string) (domain.Scenario, error)
	List(ctx context.Context) ([]domain.Scenario, error)
	Save(ctx context.Context, scenario domain.Scenario) error
}
