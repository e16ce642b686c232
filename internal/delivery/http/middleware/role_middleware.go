package middleware

import (
	"net/http"

	"go-job-portal-backend/internal/delivery/http/response"
	"go-job-portal-backend/internal/domain"
	"go-job-portal-backend/pkg/apperror"
	"go-job-portal-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// RequireRole must run after AuthMiddleware. Denials are written to the audit log.
func RequireRole(role string, audit *security.SecurityLogger) gin.HandlerFunc {
	if audit == nil {
		audit = security.NopLogger()
	}
	return func(c *gin.Context) {
		principal, ok := domain.PrincipalFromContext(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusUnauthorized, "User not authenticated", apperror.KindUnauthorized)
			c.Abort()
			return
		}

		if !domain.Authorize(principal.Role, role) {
			audit.Log(c.Request.Context(), security.SecurityEvent{
				Event:        security.EventUnauthorizedAccess,
				SubjectType:  "user_id",
				SubjectValue: security.HashValue(principal.ID),
				IP:           c.ClientIP(),
				RequestID:    c.GetString("RequestID"),
				Details: map[string]interface{}{
					"required_role": role,
					"role":          principal.Role,
					"endpoint":      c.FullPath(),
				},
			})
			response.Error(c, http.StatusForbidden, "Insufficient permissions", apperror.KindForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
