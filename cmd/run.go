package cmd

import (
	"context"
	"errors"
	"fmt"

	summaryrender "github.com/nathangeffen/matchcmp/internal/adapters/render/summary"
	"github.com/nathangeffen/matchcmp/internal/adapters/report"
	csvreport "github.com/nathangeffen/matchcmp/internal/adapters/report/csv"
	"github.com/nathangeffen/matchcmp/internal/adapters/report/jsondoc"
	sqlitereport "github.com/nathangeffen/matchcmp/internal/adapters/report/sqlite"
	"github.com/nathangeffen/matchcmp/internal/application"
	"github.com/nathangeffen/matchcmp/internal/config"
	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/nathangeffen/matchcmp/internal/ports"
	"github.com/spf13/cobra"
)

type runFlags struct {
	params  parameterFlags
	label   string
	outPath string
	dbPath  string
	asJSON  bool
	strict  bool
	quiet   bool
}

func newRunCmd(app *app) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and write the per-step report",
		Long:  "run simulates the population for the scenario's number of years. The CSV report goes to stdout unless --out is given; begin and end summaries are printed on stderr.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides, err := flags.params.overrides(cmd)
			if err != nil {
				return err
			}

			scenario, err := app.scenarioService.Resolve(cmd.Context(), app.cfg.GetString(config.RunScenarioKey), overrides)
			if err != nil {
				return err
			}

			req := application.RunRequest{
				ID:           application.NewRunID(),
				Label:        flags.label,
				Scenario:     scenario.Name,
				Seed:         app.cfg.GetUint64(config.RunSeedKey),
				Agents:       app.cfg.GetInt(config.RunAgentsKey),
				Params:       scenario.Params,
				StrictChecks: flags.strict,
			}
			if err := req.Validate(); err != nil {
				return err
			}

			sink, err := openReportSinks(cmd, req, flags, app.clock)
			if err != nil {
				return err
			}

			result, err := finishReport(sink, func() (application.RunResult, error) {
				return simulate(cmd, app, sink, req, flags)
			})
			if err != nil {
				return err
			}

			if flags.quiet {
				return nil
			}
			return writeSummariesOutput(cmd, app, result.Run)
		},
	}

	cmd.Flags().Uint64("seed", application.DefaultSeed, "Random seed")
	cmd.Flags().Int("agents", application.DefaultAgents, "Number of agents")
	cmd.Flags().String("scenario", domain.DefaultScenarioName, "Scenario name")
	_ = app.cfg.BindPFlag(config.RunSeedKey, cmd.Flags().Lookup("seed"))
	_ = app.cfg.BindPFlag(config.RunAgentsKey, cmd.Flags().Lookup("agents"))
	_ = app.cfg.BindPFlag(config.RunScenarioKey, cmd.Flags().Lookup("scenario"))

	flags.params.register(cmd)
	cmd.Flags().StringVar(&flags.label, "label", "", "Free-form label stored with the run")
	cmd.Flags().StringVar(&flags.outPath, "out", "", "Write the CSV report to this file instead of stdout")
	cmd.Flags().StringVar(&flags.dbPath, "db", "", "Also archive records and summaries in this SQLite database")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print one JSON document with records and summaries on stdout")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Check population invariants after every step")
	cmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Do not print summaries on stderr")

	return cmd
}

// openReportSinks combines the CSV, JSON and SQLite sinks selected by flags.
// Sinks opened before a failure are closed again.
func openReportSinks(cmd *cobra.Command, req application.RunRequest, flags runFlags, clock ports.Clock) (report.Tee, error) {
	var sinks []ports.ReportSink
	fail := func(err error) (report.Tee, error) {
		return nil, errors.Join(err, report.NewTee(sinks...).Abort())
	}

	switch {
	case flags.outPath != "":
		sink, err := csvreport.Create(flags.outPath)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, sink)
	case !flags.asJSON:
		sinks = append(sinks, csvreport.NewSink(cmd.OutOrStdout()))
	}

	if flags.asJSON {
		sinks = append(sinks, jsondoc.NewSink(cmd.OutOrStdout(), req.ID, req.Label, req.Seed))
	}

	if flags.dbPath != "" {
		sink, err := sqlitereport.Open(cmd.Context(), flags.dbPath, req.ID, req.Label, clock)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, sink)
	}

	return report.NewTee(sinks...), nil
}

// finishReport runs simulate and then closes sink, or aborts it when the run
// failed so no partial report is kept.
func finishReport(sink ports.ReportSink, simulate func() (application.RunResult, error)) (application.RunResult, error) {
	result, err := simulate()
	if err != nil {
		if abortErr := sink.Abort(); abortErr != nil {
			err = errors.Join(err, fmt.Errorf("abort report: %w", abortErr))
		}
		return result, err
	}

	if err := sink.Close(); err != nil {
		return result, fmt.Errorf("close report: %w", err)
	}
	return result, nil
}

// simulate runs the engine, behind a spinner on stderr when stdout is not
// carrying the report.
func simulate(cmd *cobra.Command, app *app, sink ports.ReportSink, req application.RunRequest, flags runFlags) (application.RunResult, error) {
	svc := app.simulation(sink)
	if flags.outPath == "" || flags.asJSON || flags.quiet {
		return svc.Run(cmd.Context(), req)
	}

	var result application.RunResult
	err := runSimulationSpinner(cmd.Context(), cmd.ErrOrStderr(), func(ctx context.Context, progress func(done, total int)) error {
		req.Progress = progress
		var err error
		result, err = svc.Run(ctx, req)
		return err
	})

	return result, err
}

func writeSummariesOutput(cmd *cobra.Command, app *app, run domain.Run) error {
	rendered, err := app.summaryRenderer([]domain.Summary{run.Begin, run.End}, summaryrender.RenderOptions{
		Title: summaryTitle(run),
		RunID: run.ID,
	})
	if err != nil {
		return fmt.Errorf("render summaries: %w", err)
	}

	_, err = fmt.Fprintln(cmd.ErrOrStderr(), rendered)
	return err
}

func summaryTitle(run domain.Run) string {
	title := fmt.Sprintf("Scenario %s, seed %d", run.Scenario, run.Seed)
	if run.Label != "" {
		title += " (" + run.Label + ")"
	}
	return title
}
