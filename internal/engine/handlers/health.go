package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/questforge/questforge-backend/internal/engine/metrics"
)

// HealthCheck reports process and database health
func (h *Handler) HealthCheck(c *gin.Context) {
	startTime := time.Now()

	dbStatus := "healthy"
	dbError := ""

	trackDBOp := metrics.TrackDBOperation("read", "system_health")

	var timestamp time.Time
	if err := h.db.Session().Query("SELECT now() FROM system.local").Scan(&timestamp); err != nil {
		dbStatus = "unhealthy"
		dbError = err.Error()
		h.logger.Errorf("Database health check failed: %v", err)
		trackDBOp(err)
	} else {
		trackDBOp(nil)
	}

	response := gin.H{
		"status":    "ok",
		"timestamp": startTime.Unix(),
		"service":   "engine",
		"database": gin.H{
			"status": dbStatus,
			"error":  dbError,
		},
	}

	httpStatus := http.StatusOK
	if dbStatus != "healthy" {
		httpStatus = http.StatusServiceUnavailable
		response["status"] = "degraded"
	}

	c.JSON(httpStatus, response)
}
