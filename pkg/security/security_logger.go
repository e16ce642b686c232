package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventLoginFailed         EventType = "login_failed"
	EventLoginBlocked        EventType = "login_blocked"
	EventLoginSuccess        EventType = "login_success"
	EventRateLimitTriggered  EventType = "rate_limit_triggered"
	EventUnauthorizedAccess  EventType = "unauthorized_access"
	EventBlockCreated        EventType = "block_created"
	EventTwoFactorEnabled    EventType = "two_factor_enabled"
	EventTwoFactorDisabled   EventType = "two_factor_disabled"
	EventTwoFactorFailed     EventType = "two_factor_failed"
	EventPasswordReset       EventType = "password_reset"
	EventUnverifiedLogin     EventType = "unverified_login"
	EventUnverifiedUsersReap EventType = "unverified_users_reaped"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip", "user_id"
	SubjectValue string                 `json:"subject_value,omitempty"` // masked or hashed
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SecurityLogger writes audit events through zap, separate from the slog
// application log.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
	persistFunc func(ctx context.Context, event SecurityEvent) error
}

func NewSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return NewSecurityLoggerWith(logger, serviceName, environment)
}

// NewSecurityLoggerWith wraps an existing zap logger (zap.NewNop in tests).
func NewSecurityLoggerWith(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// NopLogger discards every event.
func NopLogger() *SecurityLogger {
	return NewSecurityLoggerWith(zap.NewNop(), "test", "test")
}

// SetPersistFunc sets the function used to persist events to the database
func (sl *SecurityLogger) SetPersistFunc(f func(ctx context.Context, event SecurityEvent) error) {
	sl.persistFunc = f
}

func levelFor(event EventType) zapcore.Level {
	switch event {
	case EventLoginSuccess, EventTwoFactorEnabled, EventTwoFactorDisabled, EventPasswordReset, EventUnverifiedUsersReap:
		return zapcore.InfoLevel
	case EventLoginBlocked, EventBlockCreated, EventUnauthorizedAccess:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment
	level := levelFor(event.Event)
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)

	if sl.persistFunc != nil {
		go func(e SecurityEvent) {
			// request context may already be cancelled
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := sl.persistFunc(ctx, e); err != nil {
				sl.zapLogger.Error("Failed to persist security event", zap.Error(err))
			}
		}(event)
	}
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, email, ip, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		Details:      map[string]interface{}{"reason": reason},
	})
}

func (sl *SecurityLogger) LogLoginBlocked(ctx context.Context, email, ip string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginBlocked,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		Details:      map[string]interface{}{"reason": "too_many_failed_attempts"},
	})
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

func (sl *SecurityLogger) LogBlockCreated(ctx context.Context, subjectType, subjectValue, ip string, durationMinutes int) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventBlockCreated,
		SubjectType:  subjectType,
		SubjectValue: maskValue(subjectType, subjectValue),
		IP:           ip,
		Details:      map[string]interface{}{"duration_minutes": durationMinutes},
	})
}

// LogUserEvent records an event about a user id, hashed.
func (sl *SecurityLogger) LogUserEvent(ctx context.Context, event EventType, userID string, details map[string]interface{}) {
	sl.Log(ctx, SecurityEvent{
		Event:        event,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		Details:      details,
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	if len(email) < 3 {
		return "***"
	}
	atIndex := -1
	for i, c := range email {
		if c == '@' {
			atIndex = i
			break
		}
	}
	if atIndex <= 1 {
		return "***" + email[1:]
	}
	return string(email[0]) + "***" + email[atIndex:]
}

// HashValue returns the first 16 hex chars of a SHA256 digest.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip":
		return value
	default:
		return HashValue(value)
	}
}
