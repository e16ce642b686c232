package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go-job-portal-backend/internal/delivery/http/response"
	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const authCookie = "auth_token"

// AuthMiddleware verifies the session token and publishes the principal to
// both the gin context and the request context.
func AuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// 1. Authorization header
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Error(c, http.StatusUnauthorized, "Authorization header must use the Bearer scheme", apperror.KindUnauthorized)
				c.Abort()
				return
			}
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		} else if cookie, err := c.Cookie(authCookie); err == nil {
			// 2. Cookie
			tokenString = cookie
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", apperror.KindUnauthorized)
			c.Abort()
			return
		}

		principal, err := authUC.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			code, kind, msg := http.StatusUnauthorized, apperror.KindInvalidToken, "Invalid token"
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				code, kind, msg = appErr.Code, appErr.Kind, appErr.Message
			}
			response.Error(c, code, msg, kind)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), principal.ID)
		c.Set(string(domain.KeyUserEmail), principal.Email)
		c.Set(string(domain.KeyUserRole), principal.Role)
		c.Set(string(domain.KeyPrincipal), *principal)
		c.Request = c.Request.WithContext(domain.WithPrincipal(c.Request.Context(), *principal))

		c.Next()
	}
}
