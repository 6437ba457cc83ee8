package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/nathangeffen/matchcmp/internal/ports"
)

type RunHistoryService struct {
	runs ports.RunRepository
}

func NewRunHistoryService(runs ports.RunRepository) *RunHistoryService {
	return &RunHistoryService{runs: runs}
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *RunHistoryService) List(ctx context.Context, limit int) ([]RunListing, error) {
	runs, err := s.runs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	listings := make([]RunListing, 0, len(runs))
	for _, run := range runs {
		listings = append(listings, newRunListing(run))
	}

	return listings, nil
}

func (s *RunHistoryService) Get(ctx context.Context, id domain.RunID) (RunListing, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return RunListing{}, err
	}

	return newRunListing(run), nil
}
