package cron

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// IdleExpirer drops registration sessions nobody has touched for a while.
type IdleExpirer interface {
	ExpireIdle(now time.Time) int
}

// SessionReaper evicts idle registration sessions on a fixed interval.
type SessionReaper struct {
	sessions IdleExpirer
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewSessionReaper(sessions IdleExpirer, interval time.Duration, logger *zap.Logger) *SessionReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionReaper{sessions: sessions, interval: interval, now: time.Now, logger: logger}
}

func (r *SessionReaper) ReapOnce() int {
	n := r.sessions.ExpireIdle(r.now())
	if n > 0 {
		r.logger.Info("Evicted idle registration sessions", zap.Int("count", n))
	}
	return n
}

// Run reaps once immediately and then on every tick until ctx is done.
func (r *SessionReaper) Run(ctx context.Context) {
	every(ctx, r.interval, func() { r.ReapOnce() })
}
