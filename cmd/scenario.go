package cmd

import (
	"fmt"
	"os"

	summaryrender "github.com/nathangeffen/matchcmp/internal/adapters/render/summary"
	"github.com/nathangeffen/matchcmp/internal/adapters/scenariofile"
	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/spf13/cobra"
)

func newScenarioCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Manage named parameter sets",
	}

	cmd.AddCommand(
		newScenarioListCmd(app),
		newScenarioShowCmd(app),
		newScenarioSaveCmd(app),
		newScenarioImportCmd(app),
	)

	return cmd
}

func newScenarioListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scenarios, err := app.scenarioService.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSONOutput(cmd, scenarios)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), summaryrender.RenderScenarios(scenarios))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newScenarioShowCmd(app *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Print a scenario as TOML or YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := scenariofile.ParseFormat(format)
			if err != nil {
				return err
			}

			name := domain.DefaultScenarioName
			if len(args) == 1 {
				name = args[0]
			}
			scenario, err := app.scenarioService.Get(cmd.Context(), name)
			if err != nil {
				return err
			}

			return scenariofile.Encode(cmd.OutOrStdout(), scenario, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(scenariofile.FormatTOML), "Output format (toml, yaml)")

	return cmd
}

func newScenarioSaveCmd(app *app) *cobra.Command {
	var (
		from        string
		description string
		params      parameterFlags
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Store a scenario derived from another one",
		Long:  "save copies the --from scenario (the built-in default unless given), applies the parameter flags and stores the result under name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := params.overrides(cmd)
			if err != nil {
				return err
			}

			scenario, err := app.scenarioService.Resolve(cmd.Context(), from, overrides)
			if err != nil {
				return err
			}
			scenario.Name = args[0]
			if cmd.Flags().Changed("description") {
				scenario.Description = description
			}

			saved, err := app.scenarioService.Save(cmd.Context(), scenario)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved scenario %s (%d steps)\n", saved.Name, saved.Params.NumIterations())
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", domain.DefaultScenarioName, "Scenario to start from")
	cmd.Flags().StringVar(&description, "description", "", "Scenario description")
	params.register(cmd)

	return cmd
}

func newScenarioImportCmd(app *app) *cobra.Command {
	var (
		name   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a scenario read from a TOML or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var (
				f   scenariofile.Format
				err error
			)
			if format != "" {
				f, err = scenariofile.ParseFormat(format)
			} else {
				f, err = scenariofile.FormatForPath(path)
			}
			if err != nil {
				return err
			}

			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open scenario file: %w", err)
			}
			defer file.Close()

			scenario, err := scenariofile.Decode(file, f)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			if name != "" {
				scenario.Name = name
			}

			saved, err := app.scenarioService.Save(cmd.Context(), scenario)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported scenario %s\n", saved.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Store under this name instead of the one in the file")
	cmd.Flags().StringVar(&format, "format", "", "File format (toml, yaml); defaults to the file extension")

	return cmd
}
