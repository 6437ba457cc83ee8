package application

import "github.com/nathangeffen/matchcmp/internal/domain"

type RunResult struct {
	Run     domain.Run
	Records int
	Events  domain.StepStats
}

// RunListing is one row of the run history, newest first.
type RunListing struct {
	Run              domain.Run
	BeginPrevalence  domain.Ratio
	EndPrevalence    domain.Ratio
	OverallIncidence domain.Ratio
}

func newRunListing(run domain.Run) RunListing {
	listing := RunListing{
		Run:             run,
		BeginPrevalence: run.Begin.Prevalence(),
		EndPrevalence:   run.End.Prevalence(),
	}
	if run.End.Incidence != nil {
		listing.OverallIncidence = run.End.Incidence.Overall
	}
	return listing
}
