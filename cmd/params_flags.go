package cmd

import (
	"fmt"

	"github.com/nathangeffen/matchcmp/internal/application"
	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/spf13/cobra"
)

// parameterFlags are the scenario parameters that can be overridden from the
// command line.
type parameterFlags struct {
	years     float64
	timeStep  float64
	startDate float64
	formation string
	infection string
}

func (f *parameterFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.years, "years", 0, "Override the number of simulated years")
	cmd.Flags().Float64Var(&f.timeStep, "time-step", 0, "Override the time step in years")
	cmd.Flags().Float64Var(&f.startDate, "start-date", 0, "Override the start date as a decimal year")
	cmd.Flags().StringVar(&f.formation, "formation", "", "Override the formation model (simple, extended)")
	cmd.Flags().StringVar(&f.infection, "infection", "", "Override the infection model (population, contact)")
}

// overrides returns only the flags set on cmd.
func (f *parameterFlags) overrides(cmd *cobra.Command) (application.ParameterOverrides, error) {
	var o application.ParameterOverrides
	changed := cmd.Flags().Changed

	if changed("years") {
		o.NumYears = &f.years
	}
	if changed("time-step") {
		o.TimeStep = &f.timeStep
	}
	if changed("start-date") {
		o.StartDate = &f.startDate
	}
	if changed("formation") {
		model := domain.FormationModel(f.formation)
		if model != domain.FormationSimple && model != domain.FormationExtended {
			return o, fmt.Errorf("%w: unknown formation model %q", domain.ErrInvalidParameters, f.formation)
		}
		o.FormationModel = &model
	}
	if changed("infection") {
		model := domain.InfectionModel(f.infection)
		if model != domain.InfectionPopulationForce && model != domain.InfectionPartnerContact {
			return o, fmt.Errorf("%w: unknown infection model %q", domain.ErrInvalidParameters, f.infection)
		}
		o.InfectionModel = &model
	}

	return o, nil
}
