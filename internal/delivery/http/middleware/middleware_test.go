package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-job-portal-backend/internal/delivery/http/middleware"
	"go-job-portal-backend/internal/delivery/http/response"
	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAuth accepts "good-admin" and "good-candidate"; "expired" reports expiry.
type stubAuth struct {
	domain.AuthUsecase
}

func (stubAuth) Authenticate(_ context.Context, tok string) (*domain.Principal, error) {
	switch tok {
	case "good-admin":
		return &domain.Principal{ID: "a-1", Email: "admin@example.com", Role: domain.RoleAdmin}, nil
	case "good-candidate":
		return &domain.Principal{ID: "c-1", Email: "c@example.com", Role: domain.RoleCandidate}, nil
	case "expired":
		return nil, apperror.New(http.StatusUnauthorized, apperror.KindTokenExpired, "Session expired", nil)
	}
	return nil, apperror.New(http.StatusUnauthorized, apperror.KindInvalidToken, "Invalid token", nil)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	return r
}

func TestErrorHandler(t *testing.T) {
	r := newEngine()
	r.GET("/app", func(c *gin.Context) {
		c.Error(apperror.Conflict("User has already applied for this job").WithKind(apperror.KindAlreadyApplied))
	})
	r.GET("/raw", func(c *gin.Context) {
		c.Error(errors.New("pq: relation does not exist"))
	})

	t.Run("Should map AppError to the envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))

		assert.Equal(t, http.StatusConflict, w.Code)
		body := decode(t, w)
		assert.Equal(t, http.StatusConflict, body.StatusCode)
		assert.Equal(t, string(apperror.KindAlreadyApplied), body.Error)
		assert.NotEmpty(t, body.RequestID)
		assert.Equal(t, body.RequestID, w.Header().Get("X-Request-ID"))
	})

	t.Run("Should hide internal error details", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/raw", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "relation")
	})
}

func TestAuthAndRole(t *testing.T) {
	r := newEngine()
	authed := r.Group("", middleware.AuthMiddleware(stubAuth{}))
	authed.GET("/me", func(c *gin.Context) {
		p, ok := domain.PrincipalFromContext(c.Request.Context())
		require.True(t, ok)
		response.Success(c, http.StatusOK, "ok", p)
	})
	authed.GET("/admin", middleware.RequireRole(domain.RoleAdmin, nil), func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ok", nil)
	})

	call := func(path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("Should require a token", func(t *testing.T) {
		w := call("/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should distinguish expired tokens", func(t *testing.T) {
		w := call("/me", "Bearer expired")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, string(apperror.KindTokenExpired), decode(t, w).Error)
	})

	t.Run("Should put the principal on the request context", func(t *testing.T) {
		w := call("/me", "Bearer good-candidate")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "c@example.com")
	})

	t.Run("Should accept the auth cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: "good-admin"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should forbid the wrong role", func(t *testing.T) {
		w := call("/admin", "Bearer good-candidate")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, string(apperror.KindForbidden), decode(t, w).Error)
	})

	t.Run("Should allow the right role", func(t *testing.T) {
		w := call("/admin", "Bearer good-admin")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	hit := func(r *gin.Engine) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.1.1.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}
	build := func(rl *middleware.RateLimiter, cfg middleware.RateLimitConfig) *gin.Engine {
		r := newEngine()
		r.GET("/x", rl.Middleware(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("Should limit in memory without redis", func(t *testing.T) {
		r := build(middleware.NewRateLimiter(nil, nil), middleware.GlobalRateLimitConfig(2, time.Minute))
		assert.Equal(t, http.StatusOK, hit(r))
		assert.Equal(t, http.StatusOK, hit(r))
		assert.Equal(t, http.StatusTooManyRequests, hit(r))
	})

	t.Run("Should share counters through redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		defer client.Close()

		cfg := middleware.AuthRateLimitConfig(1, time.Minute)
		a := build(middleware.NewRateLimiter(client, nil), cfg)
		b := build(middleware.NewRateLimiter(client, nil), cfg)
		assert.Equal(t, http.StatusOK, hit(a))
		assert.Equal(t, http.StatusTooManyRequests, hit(b))
	})

	t.Run("Should fail closed for auth routes when redis is down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
		defer client.Close()
		mr.Close()

		r := build(middleware.NewRateLimiter(client, nil), middleware.AuthRateLimitConfig(5, time.Minute))
		assert.Equal(t, http.StatusServiceUnavailable, hit(r))
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("Should answer preflight for allowed origins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Should refuse unknown origins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
