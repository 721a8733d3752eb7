package cron

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper expires lapsed subscriptions on a fixed interval. It is used
// when no task queue is configured.
type Sweeper struct {
	store    Expirer
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewSweeper(store Expirer, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{store: store, interval: interval, now: time.Now, logger: logger}
}

// SweepOnce runs a single pass.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	n, err := s.store.ExpireSubscriptions(ctx, s.now())
	if err != nil {
		s.logger.Error("Subscription sweep failed", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Expired subscriptions", zap.Int("count", n))
	}
	return n, nil
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	every(ctx, s.interval, func() { _, _ = s.SweepOnce(ctx) })
}

// every runs fn now and then on each tick until ctx is done.
func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fn()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
