package usecase

import (
	"context"
	"time"

	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/logger"
	"go-job-portal-backend/pkg/security"
)

// Reaper hard-deletes accounts that were never verified within TTL.
type Reaper struct {
	userRepo domain.UserRepository
	ttl      time.Duration
	audit    *security.SecurityLogger
	now      func() time.Time
}

func NewReaper(userRepo domain.UserRepository, ttl time.Duration, audit *security.SecurityLogger) *Reaper {
	if audit == nil {
		audit = security.NopLogger()
	}
	return &Reaper{userRepo: userRepo, ttl: ttl, audit: audit, now: time.Now}
}

// Sweep is safe to run repeatedly and alongside verification.
func (r *Reaper) Sweep(ctx context.Context) (int64, error) {
	cutoff := r.now().UTC().Add(-r.ttl)
	n, err := r.userRepo.DeleteUnauthorizedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Log.Info("Removed unverified users", "count", n, "cutoff", cutoff)
		r.audit.LogUserEvent(ctx, security.EventUnverifiedUsersReap, "", map[string]interface{}{"count": n})
	}
	return n, nil
}

// Run adapts Sweep to scheduler.RunEvery.
func (r *Reaper) Run(ctx context.Context) error {
	_, err := r.Sweep(ctx)
	return err
}
