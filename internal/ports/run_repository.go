package ports

import (
	"context"

	"github.com/nathangeffen/matchcmp/internal/domain"
)

type RunRepository interface {
	GetByID(ctx context.Context, id domain.RunID) (domain.Run, error)
	List(ctx context.Context) ([]domain.Run, error)
	Save(ctx context.Context, run domain.Run) error
}
