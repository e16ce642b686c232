package v1

import (
	"time"

	"go-job-portal-backend/config"
	"go-job-portal-backend/internal/delivery/http/middleware"
	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/security"
	"go-job-portal-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	TwoFactorUC   domain.TwoFactorUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	ResumeUC      domain.ResumeUsecase
	SkillUC       domain.SkillUsecase
	UserUC        domain.UserUsecase
	Health        HealthChecker
	RateLimiter   *middleware.RateLimiter
	SecurityLog   *security.SecurityLogger
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	validation.RegisterGinValidators()

	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil, deps.SecurityLog)
	}
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	maxResume := cfg.MaxResumeBytes
	if maxResume <= 0 {
		maxResume = 5 << 20
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())
	if cfg.RateLimitGlobalThreshold > 0 {
		r.Use(limiter.Middleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	}

	v1 := r.Group("/v1")

	NewHealthHandler(v1, deps.Health)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authLimit := func(c *gin.Context) { c.Next() }
	if cfg.RateLimitAuthThreshold > 0 {
		authLimit = limiter.Middleware(middleware.AuthRateLimitConfig(cfg.RateLimitAuthThreshold, window))
	}
	adminOnly := middleware.RequireRole(domain.RoleAdmin, deps.SecurityLog)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthUC))
	{
		NewAuthHandler(v1, protected, authLimit, deps.AuthUC, deps.TwoFactorUC, cfg)
		NewJobHandler(protected, adminOnly, deps.JobUC)
		NewApplicationHandler(protected, adminOnly, deps.ApplicationUC, maxResume)
		NewResumeHandler(protected, deps.ResumeUC, maxResume)
		NewUserHandler(protected, adminOnly, deps.UserUC, deps.SkillUC)
	}

	return r
}
