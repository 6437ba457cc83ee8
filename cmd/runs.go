package cmd

import (
	"fmt"

	summaryrender "github.com/nathangeffen/matchcmp/internal/adapters/render/summary"
	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/spf13/cobra"
)

func newRunsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the history of completed runs",
	}

	cmd.AddCommand(
		newRunsListCmd(app),
		newRunsShowCmd(app),
	)

	return cmd
}

func newRunsListCmd(app *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listings, err := app.historyService.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSONOutput(cmd, listings)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), summaryrender.RenderRuns(listings))
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newRunsShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the begin and end summaries of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := app.historyService.Get(cmd.Context(), domain.RunID(args[0]))
			if err != nil {
				return err
			}

			rendered, err := app.summaryRenderer([]domain.Summary{listing.Run.Begin, listing.Run.End}, summaryrender.RenderOptions{
				Title: summaryTitle(listing.Run),
				RunID: listing.Run.ID,
			})
			if err != nil {
				return fmt.Errorf("render summaries: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}
