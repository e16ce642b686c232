package scheduler

import (
	"context"
	"time"

	"go-job-portal-backend/pkg/logger"
)

// RunEvery calls fn immediately and then on every tick until ctx is done.
// Ticks are skipped while a previous run is still executing.
func RunEvery(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	if interval <= 0 {
		return
	}
	run := func() {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			logger.Log.Error("Scheduled task failed", "task", name, "error", err)
		}
	}

	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
