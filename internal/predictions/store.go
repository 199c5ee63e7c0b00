// Package predictions persists generated predictions and manages their
// lifecycle: active -> archived (sweep or explicit) | dismissed (user
// action), then purged after a retention window.
package predictions

import (
	"time"

	"github.com/finsight-dev/finsight/internal/model"
)

// Statistics summarizes one owner's prediction history.
type Statistics struct {
	Total         int
	Active        int
	Archived      int
	Dismissed     int
	AvgConfidence float64
	MaxConfidence float64
	MinConfidence float64
}

// Store is the prediction lifecycle store. Time is always passed in
// explicitly so staleness checks are reproducible.
type Store interface {
	// Create persists a new prediction. Status defaults to active when
	// unset; CreatedAt/UpdatedAt are stamped from now.
	Create(p *model.Prediction, now time.Time) error

	// Get returns a prediction by ID, or ErrNotFound.
	Get(id string) (model.Prediction, error)

	// ListByOwner returns an owner's predictions, newest first. Empty
	// status or type match everything.
	ListByOwner(ownerID string, status model.PredictionStatus, ptype model.PredictionType) ([]model.Prediction, error)

	// ListActive returns active, non-stale predictions, newest first.
	// Stale rows are excluded by expiry comparison, not by stored status.
	ListActive(ownerID string, ptype model.PredictionType, now time.Time) ([]model.Prediction, error)

	// ListHighConfidence returns active, non-stale predictions at or above
	// threshold, ordered by confidence descending.
	ListHighConfidence(ownerID string, threshold float64, limit int, now time.Time) ([]model.Prediction, error)

	// Archive transitions a prediction to archived. Already archived or
	// dismissed predictions are left untouched.
	Archive(id string, now time.Time) error

	// Dismiss transitions a prediction to dismissed. Already archived or
	// dismissed predictions are left untouched.
	Dismiss(id string, now time.Time) error

	// ArchiveExpired bulk-archives stale active predictions and returns
	// the count. An empty ownerID sweeps all owners.
	ArchiveExpired(ownerID string, now time.Time) (int, error)

	// PurgeOlderThan deletes archived/dismissed predictions created before
	// the cutoff, at most batchSize per call. Callers loop until it
	// returns 0.
	PurgeOlderThan(days, batchSize int, now time.Time) (int, error)

	// Statistics aggregates counts and confidence bounds for one owner.
	Statistics(ownerID string) (Statistics, error)

	Close() error
}
