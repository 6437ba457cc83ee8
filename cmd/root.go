package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/nathangeffen/matchcmp/internal/config"
	"github.com/nathangeffen/matchcmp/internal/logging"
	"github.com/spf13/cobra"
)

// Execute runs the CLI. An interrupt cancels the command context, which stops
// a running simulation between steps.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "partners",
		Short:         "Simulate sexual partnership formation and HIV transmission",
		Long:          "partners runs a discrete-time agent-based simulation of partnership formation, breakup, sexual contact and HIV infection, writing one report row per time step.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentFlags().String("log-level", logging.DefaultLevel, "Log level (debug, info, warn, error)")
	_ = app.cfg.BindPFlag(config.LogLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		logger, err := logging.New(cmd.ErrOrStderr(), app.cfg.GetString(config.LogLevelKey))
		if err != nil {
			return fmt.Errorf("configure logging: %w", err)
		}
		app.logger = logger
		return nil
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newScenarioCmd(app),
		newRunsCmd(app),
	)

	return rootCmd
}
