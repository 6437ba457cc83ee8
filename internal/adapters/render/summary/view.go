package summary

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathangeffen/matchcmp/internal/domain"
)

const defaultBarWidth = 24

var stageNames = [domain.NumStages]string{"hiv_neg", "hiv_p", "cdc1", "cdc2", "cdc3", "cdc4"}

type RenderOptions struct {
	Title    string
	RunID    domain.RunID
	BarWidth int
}

func renderView(summaries []domain.Summary, opts RenderOptions, s styles) string {
	title := opts.Title
	if title == "" {
		title = "Population summary"
	}
	lines := []string{s.title.Render(title)}
	if opts.RunID != "" {
		lines = append(lines, s.header.Render(fmt.Sprintf("run: %s", opts.RunID)))
	}

	if len(summaries) == 0 {
		lines = append(lines, s.empty.Render("No summaries available."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	width := opts.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}
	for _, sum := range summaries {
		lines = append(lines, s.section.Render(renderSummary(sum, width, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSummary(sum domain.Summary, width int, s styles) string {
	parts := []string{
		s.label.Render(sum.Label),
		s.detail.Render(fmt.Sprintf("agents: %d (males %d, females %d)", sum.Agents, sum.Males, sum.Females)),
		s.detail.Render(fmt.Sprintf("alive: %d (males %d, females %d)", sum.Alive(), sum.AliveMales, sum.AliveFemales)),
		s.detail.Render(fmt.Sprintf("age: youngest %.2f, oldest %.2f, mean %.2f", sum.Youngest, sum.Oldest, sum.MeanAge)),
	}

	for stage, count := range sum.Stages {
		parts = append(parts, stageLine(stageNames[stage], count, sum.Agents, width, s))
	}

	parts = append(parts,
		ratioLine("male prevalence", sum.MalePrevalence, s),
		ratioLine("female prevalence", sum.FemalePrevalence, s),
	)
	if sum.Incidence != nil {
		parts = append(parts,
			ratioLine("male incidence", sum.Incidence.Male, s),
			ratioLine("female incidence", sum.Incidence.Female, s),
			ratioLine("incidence", sum.Incidence.Overall, s),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func stageLine(name string, count, total, width int, s styles) string {
	fraction := 0.0
	if total > 0 {
		fraction = float64(count) / float64(total)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.key.Render(fmt.Sprintf("%-8s", name)),
		" ",
		renderBar(fraction, width, s),
		" ",
		s.detail.Render(fmt.Sprintf("%d", count)),
	)
}

func ratioLine(name string, r domain.Ratio, s styles) string {
	value := s.detail.Render(r.String())
	if !r.Defined() {
		value = s.undefined.Render(r.String())
	}
	return s.key.Render(name+": ") + value
}

func renderBar(fraction float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampFraction(fraction)))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampFraction(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
