package v1

import (
	"context"
	"net/http"

	"go-job-portal-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports per-dependency status and overall health.
type HealthChecker interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type HealthHandler struct {
	checker HealthChecker
}

func NewHealthHandler(public *gin.RouterGroup, checker HealthChecker) {
	handler := &HealthHandler{checker: checker}
	public.GET("/health", handler.Health)
}

// Health godoc
// @Summary      Service health
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if h.checker == nil {
		response.Success(c, http.StatusOK, "System operational", gin.H{"status": "ok"})
		return
	}

	status, healthy := h.checker.Check(c.Request.Context())
	if !healthy {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "System degraded",
			Data:       status,
			RequestID:  c.GetString("RequestID"),
		})
		return
	}

	response.Success(c, http.StatusOK, "System operational", status)
}
