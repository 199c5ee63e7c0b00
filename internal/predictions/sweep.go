package predictions

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper archives stale predictions and purges old terminal ones.
type Sweeper struct {
	store         Store
	retentionDays int
	batchSize     int
	log           *logrus.Logger
}

// NewSweeper wires a sweeper. retentionDays bounds how long archived and
// dismissed predictions are kept; batchSize caps each purge delete.
func NewSweeper(store Store, retentionDays, batchSize int, log *logrus.Logger) *Sweeper {
	return &Sweeper{store: store, retentionDays: retentionDays, batchSize: batchSize, log: log}
}

// Sweep archives expired predictions for the owner (all owners when empty)
// and purges terminal predictions past retention, looping the batched
// delete until it returns zero. Returns the archived count.
func (s *Sweeper) Sweep(ownerID string, now time.Time) (int, error) {
	archived, err := s.store.ArchiveExpired(ownerID, now)
	if err != nil {
		return 0, fmt.Errorf("sweeping expired predictions: %w", err)
	}

	purged := 0
	for {
		n, err := s.store.PurgeOlderThan(s.retentionDays, s.batchSize, now)
		if err != nil {
			return archived, fmt.Errorf("purging old predictions: %w", err)
		}
		if n == 0 {
			break
		}
		purged += n
	}

	s.log.WithFields(logrus.Fields{
		"owner":    ownerID,
		"archived": archived,
		"purged":   purged,
	}).Info("prediction sweep complete")
	return archived, nil
}

// Schedule runs Sweep on the given cron expression until stop is closed.
func (s *Sweeper) Schedule(spec string, ownerID string, stop <-chan struct{}) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := s.Sweep(ownerID, time.Now().UTC()); err != nil {
			s.log.WithError(err).Error("scheduled sweep failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}

	c.Start()
	<-stop
	ctx := c.Stop()
	<-ctx.Done()
	return nil
}
