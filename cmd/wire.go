package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	summaryrender "github.com/nathangeffen/matchcmp/internal/adapters/render/summary"
	tomlrepo "github.com/nathangeffen/matchcmp/internal/adapters/repo/toml"
	"github.com/nathangeffen/matchcmp/internal/application"
	"github.com/nathangeffen/matchcmp/internal/config"
	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/nathangeffen/matchcmp/internal/logging"
	"github.com/nathangeffen/matchcmp/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	cfg             *viper.Viper
	logger          *log.Logger
	clock           ports.Clock
	runs            ports.RunRepository
	scenarioService *application.ScenarioService
	historyService  *application.RunHistoryService
	summaryRenderer func([]domain.Summary, summaryrender.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	scenarios, err := tomlrepo.NewScenarioRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire scenario repository: %w", err)
	}

	runs, err := tomlrepo.NewRunRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire run repository: %w", err)
	}

	clock := ports.SystemClock{}

	return &app{
		cfg:             cfg,
		logger:          logging.Discard(),
		clock:           clock,
		runs:            runs,
		scenarioService: application.NewScenarioService(scenarios, clock),
		historyService:  application.NewRunHistoryService(runs),
		summaryRenderer: summaryrender.Render,
	}, nil
}

// simulation builds an engine writing to sink and recording finished runs.
func (a *app) simulation(sink ports.ReportSink) *application.SimulationService {
	return application.NewSimulationService(sink, a.runs, a.clock, a.logger)
}
