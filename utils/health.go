package utils

import (
	"context"
	"sync"
	"time"
)

// Pinger is anything the health monitor can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool            `json:"healthy"`
	Checks    map[string]bool `json:"checks"`
	CheckedAt time.Time       `json:"checkedAt"`
}

var (
	currentHealth = HealthStatus{Healthy: true, Checks: map[string]bool{}}
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	out := currentHealth
	out.Checks = make(map[string]bool, len(currentHealth.Checks))
	for k, v := range currentHealth.Checks {
		out.Checks[k] = v
	}
	return out
}

// CheckHealth pings every dependency once and records the result.
func CheckHealth(ctx context.Context, deps map[string]Pinger) HealthStatus {
	status := HealthStatus{Healthy: true, Checks: make(map[string]bool, len(deps)), CheckedAt: time.Now()}
	for name, p := range deps {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		ok := p.Ping(pctx) == nil
		cancel()
		status.Checks[name] = ok
		status.Healthy = status.Healthy && ok
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor re-checks deps every interval until ctx is done.
func StartHealthMonitor(ctx context.Context, deps map[string]Pinger, interval time.Duration) {
	CheckHealth(ctx, deps)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, deps)
			}
		}
	}()
}
