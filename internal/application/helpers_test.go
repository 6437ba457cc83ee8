package application

import (
	"context"
	"sync"
	"time"

	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type memorySink struct {
	records   []domain.Record
	summaries []domain.Summary
	closed    bool
	aborted   bool
	failAfter int
	err       error
}

func (s *memorySink) WriteRecord(_ context.Context, record domain.Record) error {
	if s.err != nil && len(s.records) >= s.failAfter {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func (s *memorySink) WriteSummary(_ context.Context, summary domain.Summary) error {
	s.summaries = append(s.summaries, summary)
	return nil
}

func (s *memorySink) Close() error {
	s.closed = true
	return nil
}

func (s *memorySink) Abort() error {
	s.aborted = true
	return nil
}

type inMemoryScenarioRepo struct {
	mu        sync.Mutex
	scenarios map[string]domain.Scenario
}

func (r *inMemoryScenarioRepo) GetByName(_ context.Context, name string) (domain.Scenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	scenario, ok := r.scenarios[name]
	if !ok {
		return domain.Scenario{}, domain.ErrScenarioNotFound
	}
	return scenario, nil
}

func (r *inMemoryScenarioRepo) List(context.Context) ([]domain.Scenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Scenario, 0, len(r.scenarios))
	for _, scenario := range r.scenarios {
		out = append(out, scenario)
	}
	return out, nil
}

func (r *inMemoryScenarioRepo) Save(_ context.Context, scenario domain.Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scenarios == nil {
		r.scenarios = map[string]domain.Scenario{}
	}
	r.scenarios[scenario.Name] = scenario
	return nil
}

type inMemoryRunRepo struct {
	mu   sync.Mutex
	runs []domain.Run
}

func (r *inMemoryRunRepo) GetByID(_ context.Context, id domain.RunID) (domain.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, run := range r.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return domain.Run{}, domain.ErrRunNotFound
}

func (r *inMemoryRunRepo) List(context.Context) ([]domain.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Run(nil), r.runs...), nil
}

func (r *inMemoryRunRepo) Save(_ context.Context, run domain.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}
