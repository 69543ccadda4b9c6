package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oppdesarrollo/contratos-dashboard/pkg/database"
	"github.com/oppdesarrollo/contratos-dashboard/pkg/version"
)

const (
	healthStatusHealthy   = "healthy"
	healthStatusUnhealthy = "unhealthy"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string                 `json:"status"`
	Version  string                 `json:"version"`
	Chat     bool                   `json:"chat_enabled"`
	Database *database.HealthStatus `json:"database,omitempty"`
}

// healthHandler handles GET /health. Only the database is checked; the LLM
// is excluded so an external assistant outage does not make the process look
// unhealthy to its supervisor.
func (s *Server) healthHandler(c *gin.Context) {
	resp := HealthResponse{
		Status:  healthStatusHealthy,
		Version: version.Full(),
		Chat:    s.chat != nil,
	}

	if s.dbClient != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		dbHealth, err := database.Health(ctx, s.dbClient.DB())
		resp.Database = dbHealth
		if err != nil {
			resp.Status = healthStatusUnhealthy
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
