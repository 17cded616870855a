package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health returns service health: process liveness, store reachability and
// host resource usage.
func (h *Handlers) Health(c *gin.Context) {
	dbStatus := "connected"
	status := "healthy"
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		h.log.WithError(err).Error("Database ping failed")
		dbStatus = "disconnected"
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": dbStatus,
		"system":   h.system.GetHealth(c.Request.Context()),
	})
}
