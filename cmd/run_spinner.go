package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type simulationDoneMsg struct {
	err error
}

type simulationProgressMsg struct {
	done  int
	total int
}

type simulationSpinnerModel struct {
	spinner  spinner.Model
	label    string
	done     int
	total    int
	err      error
	finished bool
}

func newSimulationSpinnerModel(label string) simulationSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return simulationSpinnerModel{
		spinner: s,
		label:   label,
	}
}

func (m simulationSpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m simulationSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case simulationProgressMsg:
		m.done = msg.done
		m.total = msg.total
		return m, nil
	case simulationDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m simulationSpinnerModel) View() string {
	if m.finished {
		return ""
	}
	if m.total > 0 {
		return fmt.Sprintf("%s %s %d/%d", m.spinner.View(), m.label, m.done, m.total)
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// runSimulationSpinner shows a spinner on output while simulate runs. The
// progress callback handed to simulate updates the step counter. It returns
// only after simulate has returned, even when the program stops first.
func runSimulationSpinner(ctx context.Context, output io.Writer, simulate func(context.Context, func(done, total int)) error) error {
	p := tea.NewProgram(
		newSimulationSpinnerModel("Simulating..."),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	done := make(chan error, 1)
	go func() {
		err := simulate(ctx, func(step, total int) {
			p.Send(simulationProgressMsg{done: step, total: total})
		})
		done <- err
		p.Send(simulationDoneMsg{err: err})
	}()

	finalModel, runErr := p.Run()
	simErr := <-done
	if simErr != nil {
		return simErr
	}
	if runErr != nil {
		return runErr
	}

	if _, ok := finalModel.(simulationSpinnerModel); !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return nil
}
