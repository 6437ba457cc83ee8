package domain

import (
	"fmt"
	"regexp"
	"time"
)

// DefaultScenarioName names the built-in parameter set.
const DefaultScenarioName = "default"

var scenarioNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Scenario is a named, stored parameter set.
type Scenario struct {
	Name        string
	Description string
	Params      Parameters
	UpdatedAt   time.Time
}

func DefaultScenario() Scenario {
	return Scenario{
		Name:        DefaultScenarioName,
		Description: "Two years of daily steps starting in 2015",
		Params:      DefaultParameters(),
	}
}

func ValidScenarioName(name string) bool {
	return scenarioNamePattern.MatchString(name)
}

func (s Scenario) Validate() error {
	if !ValidScenarioName(s.Name) {
		return fmt.Errorf("%w: invalid scenario name %q", ErrInvalidParameters, s.Name)
	}
	if err := s.Params.Validate(); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return nil
}
