// Package logging builds the leveled terminal logger shared by the CLI and
// the simulation engine.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

const DefaultLevel = "warn"

// ParseLevel maps "debug", "info", "warn" or "error" (case-insensitive) to a
// log level. An empty string selects DefaultLevel.
func ParseLevel(s string) (log.Level, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		s = DefaultLevel
	}
	switch s {
	case "debug", "info", "warn", "error":
		return log.ParseLevel(s)
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// New creates a logger writing to w.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "partners",
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
