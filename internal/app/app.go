// Package app wires configuration into repositories, usecases and the HTTP
// router. Both binaries build their dependencies through it.
package app

import (
	"context"
	"fmt"
	"time"

	"go-job-portal-backend/config"
	"go-job-portal-backend/internal/delivery/http/middleware"
	v1 "go-job-portal-backend/internal/delivery/http/v1"
	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/internal/repository/postgres"
	"go-job-portal-backend/internal/usecase"
	"go-job-portal-backend/pkg/database"
	"go-job-portal-backend/pkg/email"
	"go-job-portal-backend/pkg/logger"
	"go-job-portal-backend/pkg/redis"
	"go-job-portal-backend/pkg/security"
	"go-job-portal-backend/pkg/storage"
	"go-job-portal-backend/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Repositories groups the Postgres-backed stores.
type Repositories struct {
	Users        domain.UserRepository
	Roles        domain.RoleRepository
	Skills       domain.SkillRepository
	Jobs         domain.JobRepository
	Resumes      domain.ResumeRepository
	Applications domain.ApplicationRepository
}

func NewRepositories(db *pgxpool.Pool) Repositories {
	return Repositories{
		Users:        postgres.NewUserRepository(db),
		Roles:        postgres.NewRoleRepository(db),
		Skills:       postgres.NewSkillRepository(db),
		Jobs:         postgres.NewJobRepository(db),
		Resumes:      postgres.NewResumeRepository(db),
		Applications: postgres.NewApplicationRepository(db),
	}
}

// App owns every long-lived resource of the API process.
type App struct {
	Config      *config.Config
	DB          *pgxpool.Pool
	Redis       *goredis.Client
	Audit       *security.SecurityLogger
	Repos       Repositories
	Hasher      domain.PasswordHasher
	RateLimiter *middleware.RateLimiter
	Reaper      *usecase.Reaper
	Seeder      *usecase.Seeder

	authUC        domain.AuthUsecase
	twoFactorUC   domain.TwoFactorUsecase
	skillUC       domain.SkillUsecase
	jobUC         domain.JobUsecase
	resumeUC      domain.ResumeUsecase
	userUC        domain.UserUsecase
	applicationUC domain.ApplicationUsecase
	health        usecase.HealthUsecase
}

// OpenDB connects to Postgres and applies pending migrations when
// AUTO_MIGRATE is set.
func OpenDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	db, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.AutoMigrate {
		applied, err := postgres.Migrate(ctx, db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		if len(applied) > 0 {
			logger.Log.Info("Applied migrations", "versions", applied)
		}
	}
	return db, nil
}

// NewAuditLogger returns the zap-backed security logger, persisting events
// to Postgres when db is set.
func NewAuditLogger(cfg *config.Config, db *pgxpool.Pool) *security.SecurityLogger {
	audit := security.NewSecurityLogger(cfg.AppName, cfg.Environment)
	if db != nil {
		audit.SetPersistFunc(security.NewEventStore(db).Persist)
	}
	return audit
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		DB:     db,
		Audit:  NewAuditLogger(cfg, db),
		Repos:  NewRepositories(db),
		Hasher: security.NewBcryptHasher(bcrypt.DefaultCost),
	}

	a.Redis, err = redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	if err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting without login lockout", "error", err)
		a.Redis = nil
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("resume storage: %w", err)
	}

	tokens, err := token.NewService(token.Config{
		Secret: cfg.JWTSecret,
		Issuer: cfg.AppName,
		TTLs: map[token.Purpose]time.Duration{
			token.PurposeVerification: cfg.VerificationTokenTTL,
			token.PurposeSession:      cfg.SessionTokenTTL,
			token.PurposeReset:        cfg.ResetTokenTTL,
			token.PurposeTwoFactor:    cfg.TwoFactorTokenTTL,
		},
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	notifier := email.NewSMTPNotifier(cfg)
	if !notifier.IsConfigured() {
		logger.Log.Warn("SMTP not fully configured; signup and password reset emails will fail")
	}

	guard := security.NewLoginTracker(a.Redis, security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		UseIPTracking: true,
	}, a.Audit)

	a.authUC = usecase.NewAuthUsecase(a.Repos.Users, a.Repos.Roles, a.Hasher, notifier, tokens, guard, a.Audit, usecase.AuthConfig{
		AppName:          cfg.AppName,
		VerifyUserURL:    cfg.VerifyUserURL,
		ResetPasswordURL: cfg.ResetPasswordURL,
	})
	a.twoFactorUC = usecase.NewTwoFactorUsecase(a.Repos.Users, cfg.AppName, a.Audit)
	a.skillUC = usecase.NewSkillUsecase(a.Repos.Skills)
	a.jobUC = usecase.NewJobUsecase(a.Repos.Jobs, a.skillUC)
	a.resumeUC = usecase.NewResumeUsecase(a.Repos.Resumes, store, cfg.MaxResumeBytes)
	a.userUC = usecase.NewUserUsecase(a.Repos.Users, a.Repos.Skills, a.Repos.Resumes)
	a.applicationUC = usecase.NewApplicationUsecase(a.Repos.Applications, a.Repos.Jobs, a.Repos.Skills, a.resumeUC, a.userUC)

	a.Reaper = usecase.NewReaper(a.Repos.Users, cfg.UnverifiedUserTTL, a.Audit)
	a.Seeder = usecase.NewSeeder(a.Repos.Users, a.Repos.Roles, a.Hasher)
	a.RateLimiter = middleware.NewRateLimiter(a.Redis, a.Audit)

	checks := map[string]usecase.Pinger{
		"database": db.Ping,
		"redis":    nil,
	}
	if a.Redis != nil {
		client := a.Redis
		checks["redis"] = func(ctx context.Context) error { return redis.HealthCheck(ctx, client) }
	}
	if pinger, ok := store.(interface{ Ping(context.Context) error }); ok {
		checks["storage"] = pinger.Ping
	}
	a.health = usecase.NewHealthUsecase(checks)

	return a, nil
}

// AdminAccount is the seeded admin described by the environment.
func (a *App) AdminAccount() usecase.AdminAccount {
	return usecase.AdminAccount{
		Email:    a.Config.AdminEmail,
		Username: a.Config.AdminUsername,
		Password: a.Config.AdminPassword,
		Mobile:   a.Config.AdminMobile,
	}
}

func (a *App) Router() *gin.Engine {
	return v1.NewRouter(v1.RouterDeps{
		AuthUC:        a.authUC,
		TwoFactorUC:   a.twoFactorUC,
		JobUC:         a.jobUC,
		ApplicationUC: a.applicationUC,
		ResumeUC:      a.resumeUC,
		SkillUC:       a.skillUC,
		UserUC:        a.userUC,
		Health:        a.health,
		RateLimiter:   a.RateLimiter,
		SecurityLog:   a.Audit,
		Config:        a.Config,
	})
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.Audit != nil {
		_ = a.Audit.Sync()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
