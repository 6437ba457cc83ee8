package summary

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nathangeffen/matchcmp/internal/application"
	"github.com/nathangeffen/matchcmp/internal/domain"
)

// RenderRuns lays out the run history as a table.
func RenderRuns(listings []application.RunListing) string {
	s := newStyles()
	if len(listings) == 0 {
		return s.empty.Render("No runs recorded.")
	}

	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{
			string(l.Run.ID),
			l.Run.StartedAt.Local().Format(time.DateTime),
			labelOrDash(l.Run.Scenario),
			labelOrDash(l.Run.Label),
			strconv.FormatUint(l.Run.Seed, 10),
			strconv.Itoa(l.Run.Agents),
			strconv.Itoa(l.Run.Iterations),
			l.BeginPrevalence.String(),
			l.EndPrevalence.String(),
			l.OverallIncidence.String(),
		})
	}

	return newTable(s, "id", "started", "scenario", "label", "seed", "agents", "steps", "prev begin", "prev end", "incidence").
		Rows(rows...).
		Render()
}

// RenderScenarios lays out stored scenarios with their key parameters.
func RenderScenarios(scenarios []domain.Scenario) string {
	s := newStyles()
	if len(scenarios) == 0 {
		return s.empty.Render("No scenarios stored.")
	}

	rows := make([][]string, 0, len(scenarios))
	for _, sc := range scenarios {
		p := sc.Params
		rows = append(rows, []string{
			sc.Name,
			fmt.Sprintf("%g", p.NumYears),
			fmt.Sprintf("%.6g", p.TimeStep),
			strconv.Itoa(p.NumIterations()),
			string(p.FormationModel),
			string(p.InfectionModel),
			labelOrDash(sc.Description),
		})
	}

	return newTable(s, "name", "years", "time step", "steps", "formation", "infection", "description").
		Rows(rows...).
		Render()
}

func newTable(s styles, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.tableEdge).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.tableHead
			}
			return s.tableCell
		})
}

func labelOrDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
