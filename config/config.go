package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingSecret      = errors.New("config: JWT_SECRET is required")
	ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required")
)

// Config is built once at startup and passed by pointer to every component.
type Config struct {
	Port        string
	DBUrl       string
	AutoMigrate bool
	AppName     string
	Environment string
	LogLevel    string
	FrontendURL string
	CORSOrigins []string
	// Token Service
	JWTSecret            string
	VerificationTokenTTL time.Duration
	SessionTokenTTL      time.Duration
	ResetTokenTTL        time.Duration
	TwoFactorTokenTTL    time.Duration
	VerifyUserURL        string
	ResetPasswordURL     string
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitAuthThreshold   int
	RateLimitGlobalThreshold int
	FailedLoginBlockMinutes  int
	FailedLoginMaxAttempts   int
	// Resume storage
	StorageDriver     string // "fs" or "s3"
	StorageDir        string
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	MaxResumeBytes    int64
	// Reaper
	UnverifiedUserTTL time.Duration
	ReaperInterval    time.Duration
	// Seeding
	AdminEmail    string
	AdminUsername string
	AdminPassword string
	AdminMobile   string
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		AutoMigrate: getEnvBool("AUTO_MIGRATE", true),
		AppName:     getEnv("APP_NAME", "Job Management Portal"),
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),

		JWTSecret:            getEnv("JWT_SECRET", ""),
		VerificationTokenTTL: getEnvDuration("VERIFICATION_TOKEN_TTL", 5*time.Minute),
		SessionTokenTTL:      getEnvDuration("SESSION_TOKEN_TTL", 24*time.Hour),
		ResetTokenTTL:        getEnvDuration("RESET_TOKEN_TTL", 15*time.Minute),
		TwoFactorTokenTTL:    getEnvDuration("TWO_FACTOR_TOKEN_TTL", 5*time.Minute),
		VerifyUserURL:        getEnv("VERIFY_USER_URL", "http://localhost:3000/verify?token="),
		ResetPasswordURL:     getEnv("RESET_PASSWORD_URL", "http://localhost:3000/reset-password?token="),

		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@jobportal.local"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitAuthThreshold:   getEnvInt("RATE_LIMIT_AUTH_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),

		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", "fs")),
		StorageDir:        getEnv("STORAGE_DIR", "var/storage/resumes"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		MaxResumeBytes:    int64(getEnvInt("MAX_RESUME_BYTES", 5<<20)),

		UnverifiedUserTTL: getEnvDuration("UNVERIFIED_USER_TTL", 5*time.Minute),
		ReaperInterval:    getEnvDuration("REAPER_INTERVAL", 24*time.Hour),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminMobile:   getEnv("ADMIN_MOBILE", "0000000000"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.DBUrl == "" {
		return nil, ErrMissingDatabaseURL
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback and login lockout is disabled.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("5m", "24h").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
