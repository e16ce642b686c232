package usecase

import (
	"context"
	"time"
)

// Pinger is any dependency that can report its own reachability.
type Pinger func(ctx context.Context) error

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	checks map[string]Pinger
}

// NewHealthUsecase takes named checks; nil checks are reported as "disabled".
func NewHealthUsecase(checks map[string]Pinger) HealthUsecase {
	return &healthUsecase{checks: checks}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	healthy := true
	for name, ping := range u.checks {
		switch {
		case ping == nil:
			status[name] = "disabled"
		case ping(ctx) != nil:
			status[name] = "down"
			healthy = false
		default:
			status[name] = "up"
		}
	}
	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}
