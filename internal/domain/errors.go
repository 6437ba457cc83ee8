package domain

import "errors"

var (
	ErrInvalidParameters  = errors.New("invalid parameters")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrUndefinedRatio     = errors.New("undefined ratio")
	ErrScenarioNotFound   = errors.New("scenario not found")
	ErrRunNotFound        = errors.New("run not found")
)
