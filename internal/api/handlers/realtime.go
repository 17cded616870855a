package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/pkg/utils"
)

// GetRealtimeMetrics serves the live metric feed. With a since cursor it
// returns only samples recorded after it, so a polling client can append
// increments; without one it returns the most recent window.
func (h *Handlers) GetRealtimeMetrics(c *gin.Context) {
	defer h.observeQuery("realtime_metrics", time.Now())

	var (
		samples []models.RealtimeSample
		err     error
	)
	if since := c.Query("since"); since != "" {
		samples, err = h.repos.Realtime.GetSamplesSince(c.Request.Context(), since)
	} else {
		samples, err = h.repos.Realtime.GetRecentSamples(c.Request.Context())
	}
	if err != nil {
		h.log.WithError(err).Error("Failed to load realtime metrics")
		utils.SendReportError(c, err)
		return
	}
	if samples == nil {
		samples = []models.RealtimeSample{}
	}
	utils.SendSuccess(c, samples)
}

// GetAPIEndpoints serves the monitored endpoint health rows.
func (h *Handlers) GetAPIEndpoints(c *gin.Context) {
	defer h.observeQuery("api_endpoints", time.Now())

	endpoints, err := h.repos.Realtime.GetAPIEndpoints(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to load API endpoint health")
		utils.SendReportError(c, err)
		return
	}
	if endpoints == nil {
		endpoints = []models.APIEndpointHealth{}
	}
	utils.SendSuccess(c, endpoints)
}
