package model

import "errors"

var (
	// ErrNotFound reports an unknown prediction or goal ID.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientData means an analysis lacks its minimum data points.
	// Pipelines skip the affected analysis rather than failing.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidScenario rejects a simulation scenario before running it.
	ErrInvalidScenario = errors.New("invalid scenario")
)
