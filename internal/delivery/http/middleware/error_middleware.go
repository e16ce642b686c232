package middleware

import (
	"errors"
	"net/http"

	"go-job-portal-backend/internal/delivery/http/response"
	"go-job-portal-backend/pkg/apperror"
	"go-job-portal-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed",
					"request_id", c.GetString("RequestID"),
					"path", c.FullPath(),
					"kind", appErr.Kind,
					"error", appErr.Err,
				)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Kind)
			return
		}

		// Internal causes stay in the server log.
		logger.Log.Error("Unhandled error",
			"request_id", c.GetString("RequestID"),
			"path", c.FullPath(),
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", apperror.KindInternal)
	}
}
