package session

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor periodically deletes sessions idle for longer than the TTL.
type Janitor struct {
	store  *Store
	ttl    time.Duration
	cron   *cron.Cron
	logger *zap.Logger
	now    func() time.Time
}

// NewJanitor schedules a sweep on spec (standard cron syntax or
// descriptors such as "@every 15m").
func NewJanitor(store *Store, ttl time.Duration, spec string, logger *zap.Logger) (*Janitor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	j := &Janitor{
		store:  store,
		ttl:    ttl,
		cron:   cron.New(),
		logger: logger.Named("janitor"),
		now:    time.Now,
	}
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return nil, fmt.Errorf("register session sweep: %w", err)
	}
	return j, nil
}

// Start starts the schedule in the background.
func (j *Janitor) Start() {
	j.cron.Start()
	j.logger.Info("session janitor started", zap.Duration("ttl", j.ttl))
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("session janitor stopped")
}

// Sweep deletes expired sessions once.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	return j.store.PurgeIdle(ctx, j.now().Add(-j.ttl))
}

func (j *Janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := j.Sweep(ctx)
	if err != nil {
		j.logger.Error("session sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		j.logger.Info("expired sessions purged", zap.Int64("count", n))
	}
}
