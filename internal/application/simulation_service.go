package application

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/nathangeffen/matchcmp/internal/logging"
	"github.com/nathangeffen/matchcmp/internal/ports"
	"github.com/nathangeffen/matchcmp/internal/stochastic"
)

const (
	beginLabel = "begin"
	endLabel   = "end"
)

var ErrNoReportSink = errors.New("no report sink configured")

func NewRunID() domain.RunID {
	return domain.RunID(uuid.NewString())
}

type SimulationService struct {
	sink   ports.ReportSink
	runs   ports.RunRepository
	clock  ports.Clock
	logger *log.Logger
}

// NewSimulationService wires the engine to its report sink. runs may be nil,
// in which case completed runs are not recorded.
func NewSimulationService(sink ports.ReportSink, runs ports.RunRepository, clock ports.Clock, logger *log.Logger) *SimulationService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &SimulationService{sink: sink, runs: runs, clock: clock, logger: logger}
}

// Run initialises a population from req, emits the begin summary and the
// initial record, advances the population NumIterations steps emitting one
// record per step, and finishes with the end summary. The sink is not closed.
func (s *SimulationService) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	if s.sink == nil {
		return RunResult{}, ErrNoReportSink
	}
	if err := req.Validate(); err != nil {
		return RunResult{}, err
	}

	params := req.Params
	stepper, err := domain.NewStepper(params)
	if err != nil {
		return RunResult{}, err
	}

	sampler := stochastic.New(req.Seed)
	pop, err := domain.NewPopulation(req.Agents, params, sampler)
	if err != nil {
		return RunResult{}, fmt.Errorf("initialise population: %w", err)
	}

	iterations := params.NumIterations()
	id := req.ID
	if id == "" {
		id = NewRunID()
	}
	run := domain.Run{
		ID:         id,
		Label:      req.Label,
		Scenario:   req.Scenario,
		Seed:       req.Seed,
		Agents:     req.Agents,
		Iterations: iterations,
		Params:     params,
		StartedAt:  s.clock.Now(),
	}
	logger := s.logger.With("run", run.ID)
	logger.Info("simulation started", "seed", req.Seed, "agents", req.Agents, "iterations", iterations)

	run.Begin = domain.Summarize(beginLabel, pop, nil)
	if err := s.sink.WriteSummary(ctx, run.Begin); err != nil {
		return RunResult{}, fmt.Errorf("write begin summary: %w", err)
	}
	if err := s.sink.WriteRecord(ctx, domain.NewRecord(params.StartDate, pop)); err != nil {
		return RunResult{}, fmt.Errorf("write initial record: %w", err)
	}

	result := RunResult{Records: 1}
	stepsPerYear := int(math.Round(domain.Year / params.TimeStep))

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("simulation stopped at step %d: %w", i, err)
		}

		stats, err := stepper.Step(pop, sampler)
		if err != nil {
			return result, fmt.Errorf("step %d: %w", i, err)
		}
		result.Events.Add(stats)

		if req.StrictChecks {
			if err := pop.CheckInvariants(); err != nil {
				return result, fmt.Errorf("step %d: %w", i, err)
			}
		}

		record := domain.NewRecord(params.DateAt(i), pop)
		if err := s.sink.WriteRecord(ctx, record); err != nil {
			return result, fmt.Errorf("write record for step %d: %w", i, err)
		}
		result.Records++

		if stepsPerYear > 0 && (i+1)%stepsPerYear == 0 {
			logger.Debug("simulation progress", "date", record.Date, "prevalence", record.Prevalence, "partnerships", record.Partnerships)
		}
		if req.Progress != nil {
			req.Progress(i+1, iterations)
		}
	}

	run.End = domain.Summarize(endLabel, pop, &run.Begin)
	if err := s.sink.WriteSummary(ctx, run.End); err != nil {
		return result, fmt.Errorf("write end summary: %w", err)
	}
	run.FinishedAt = s.clock.Now()
	result.Run = run

	logger.Info("simulation finished",
		"records", result.Records,
		"infections", result.Events.Infections,
		"formations", result.Events.Formations,
		"breakups", result.Events.Breakups,
		"duration", run.Duration(),
	)

	if s.runs != nil {
		if err := s.runs.Save(ctx, run); err != nil {
			return result, fmt.Errorf("save run history: %w", err)
		}
	}

	return result, nil
}
