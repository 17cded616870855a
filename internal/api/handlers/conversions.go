package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/pkg/errors"
	"github.com/smartshopie/analytics-backend-go/pkg/utils"
)

// GetConversionAnalytics serves the latest conversion analytics snapshot
// within the period, or the latest snapshot overall when the period is empty.
func (h *Handlers) GetConversionAnalytics(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("conversion_analytics", time.Now())

	analytics, fb, err := h.repos.Conversion.GetAnalytics(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to load conversion analytics")
		utils.SendReportError(c, err)
		return
	}
	if analytics == nil {
		h.markNoData("conversion_analytics")
		utils.SendReportError(c, errors.NoData("No conversion analytics found for period %s (%s)", rng.Period, rng))
		return
	}

	debug := reporting.NewDebug(rng)
	if fb.Used {
		h.markFallback("conversion_analytics", rng.Period)
		debug.UsedFallback = true
		debug.FallbackDate = fb.Anchor
	}
	utils.SendSuccessWithDebug(c, analytics, debug)
}

// GetConversionTrends serves the bucketed conversion trend series.
func (h *Handlers) GetConversionTrends(c *gin.Context) {
	rng := periodRange(c)
	bucket := reporting.BucketFor(rng.Period)
	defer h.observeQuery("conversion_trends", time.Now())

	points, fb, err := h.repos.Conversion.GetTrends(c.Request.Context(), rng, bucket)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate conversion trends")
		utils.SendReportError(c, err)
		return
	}
	if points == nil {
		points = []models.TrendPoint{}
	}

	debug := reporting.NewDebug(rng)
	debug.Aggregation = bucket.String()
	if fb.Used {
		h.markFallback("conversion_trends", rng.Period)
		debug.UsedFallback = true
		debug.FallbackDate = fb.Anchor
	}
	utils.SendSuccessWithDebug(c, points, debug)
}
