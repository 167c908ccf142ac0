package service

import (
	"context"
	"time"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// Janitor periodically purges deletion requests that expired more than
// retention ago. Expired requests stay in the store until then so that a late
// confirmation still reports an expired code.
type Janitor struct {
	store     model.DeletionStore
	interval  time.Duration
	retention time.Duration
	logger    *logger.Logger
	now       func() time.Time
}

func NewJanitor(store model.DeletionStore, interval, retention time.Duration, logger *logger.Logger) *Janitor {
	return &Janitor{
		store:     store,
		interval:  interval,
		retention: max(retention, 0),
		logger:    logger,
		now:       time.Now,
	}
}

// Run purges on every tick until ctx is done. A non-positive interval
// disables the loop.
func (j *Janitor) Run(ctx context.Context) {
	if j.interval <= 0 {
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.PurgeOnce(ctx)
		}
	}
}

// PurgeOnce removes requests that expired before now minus retention.
func (j *Janitor) PurgeOnce(ctx context.Context) int64 {
	n, err := j.store.PurgeExpired(ctx, j.now().Add(-j.retention))
	if err != nil {
		j.logger.Error("Janitor: failed to purge deletion requests",
			"error", err.Error())
		return 0
	}
	if n > 0 {
		j.logger.Info("Janitor: purged expired deletion requests",
			"count", n)
	}
	return n
}
