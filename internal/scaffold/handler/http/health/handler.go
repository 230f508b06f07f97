// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/innovationmech/scaffold/pkg/logger"
)

// Status represents health check response
type Status struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// Pinger reports whether a dependency such as the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler handles HTTP requests for health service
type Handler struct {
	version     string
	environment string
	db          Pinger
}

// NewHandler creates a new health HTTP handler. db may be nil.
func NewHandler(version, environment string, db Pinger) *Handler {
	return &Handler{
		version:     version,
		environment: environment,
		db:          db,
	}
}

// RegisterRoutes mounts GET /health.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.HealthCheck)
}

// HealthCheck handles HTTP health check requests
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	Status
//	@Failure	503	{object}	Status
//	@Router		/health [get]
func (h *Handler) HealthCheck(c *gin.Context) {
	status := Status{
		Status:      "healthy",
		Version:     h.version,
		Environment: h.environment,
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logger.GetLogger().Error("Health check failed", zap.Error(err))
			status.Status = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
	}

	c.JSON(http.StatusOK, status)
}
