package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/pkg/response"
)

// HealthCheck 依赖探测项，如数据库、Redis
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler 健康检查
type HealthHandler struct {
	checks  []HealthCheck
	timeout time.Duration
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Ping 存活探针
// @Summary  存活探针
// @Tags     健康检查
// @Produce  json
// @Success  200 {object} response.Response
// @Router   /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	response.Success(c, gin.H{"message": "pong"})
}

// Health 就绪探针，逐项探测依赖
// @Summary  就绪探针
// @Tags     健康检查
// @Produce  json
// @Success  200 {object} response.Response
// @Failure  503 {object} response.Response
// @Router   /api/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := "healthy"
	results := make(map[string]string, len(h.checks))
	for _, hc := range h.checks {
		if err := hc.Check(ctx); err != nil {
			results[hc.Name] = err.Error()
			status = "unhealthy"
			continue
		}
		results[hc.Name] = "ok"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, response.Response{
		Code:    0,
		Message: status,
		Data:    gin.H{"status": status, "checks": results},
	})
}
