package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before block
	AttemptWindow time.Duration // window for counting attempts
	BlockDuration time.Duration // how long a block lasts
	UseIPTracking bool          // also block the source IP
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker implements domain.LoginGuard on Redis. A nil client turns
// every method into a no-op.
type LoginTracker struct {
	client *goredis.Client
	config LoginTrackerConfig
	logger *SecurityLogger
}

func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	if logger == nil {
		logger = NopLogger()
	}
	return &LoginTracker{client: client, config: config, logger: logger}
}

// Redis key patterns
const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// KEYS[1] = counter key, ARGV[1] = TTL seconds. Returns the new count.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	if lt.client == nil {
		return false, nil
	}

	keys := []string{blockedLoginUserPrefix + email}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}
	n, err := lt.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return n > 0, nil
}

// RecordFailure counts a failed attempt and reports whether a block was created.
func (lt *LoginTracker) RecordFailure(ctx context.Context, email, ip string) (bool, error) {
	lt.logger.LogLoginFailed(ctx, email, ip, "invalid_credentials")
	if lt.client == nil {
		return false, nil
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())
	userCount, err := lt.atomicIncrement(ctx, failLoginUserPrefix+email, ttlSeconds)
	if err != nil {
		return false, fmt.Errorf("failed to increment user counter: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_, _ = lt.atomicIncrement(ctx, failLoginIPPrefix+ip, ttlSeconds)
	}

	if userCount < lt.config.MaxAttempts {
		return false, nil
	}
	if err := lt.createBlock(ctx, email, ip); err != nil {
		return true, err
	}
	return true, nil
}

func (lt *LoginTracker) atomicIncrement(ctx context.Context, key string, ttlSeconds int) (int, error) {
	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, email, ip string) error {
	if err := lt.client.Set(ctx, blockedLoginUserPrefix+email, "1", lt.config.BlockDuration).Err(); err != nil {
		return fmt.Errorf("failed to set user block: %w", err)
	}
	// only the account block is load-bearing
	if lt.config.UseIPTracking && ip != "" {
		_ = lt.client.Set(ctx, blockedLoginIPPrefix+ip, "1", lt.config.BlockDuration).Err()
	}
	lt.logger.LogBlockCreated(ctx, "email", email, ip, int(lt.config.BlockDuration.Minutes()))
	return nil
}

// Reset clears counters after a successful login.
func (lt *LoginTracker) Reset(ctx context.Context, email, ip string) error {
	if lt.client == nil {
		return nil
	}
	keys := []string{failLoginUserPrefix + email}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, failLoginIPPrefix+ip)
	}
	if err := lt.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

// RemainingAttempts returns how many failures are left before a block.
func (lt *LoginTracker) RemainingAttempts(ctx context.Context, email string) (int, error) {
	if lt.client == nil {
		return lt.config.MaxAttempts, nil
	}
	count, err := lt.client.Get(ctx, failLoginUserPrefix+email).Int()
	if errors.Is(err, goredis.Nil) {
		return lt.config.MaxAttempts, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get attempt count: %w", err)
	}
	if remaining := lt.config.MaxAttempts - count; remaining > 0 {
		return remaining, nil
	}
	return 0, nil
}
