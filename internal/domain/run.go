package domain

import "time"

type RunID string

// Run is the history entry written after a simulation completes.
type Run struct {
	ID         RunID
	Label      string
	Scenario   string
	Seed       uint64
	Agents     int
	Iterations int
	Params     Parameters
	StartedAt  time.Time
	FinishedAt time.Time
	Begin      Summary
	End        Summary
}

func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
