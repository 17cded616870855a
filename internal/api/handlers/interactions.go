package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/pkg/errors"
	"github.com/smartshopie/analytics-backend-go/pkg/utils"
)

// GetInteractionSummary serves the interaction totals plus the bucketed
// per-type timeline for the period.
func (h *Handlers) GetInteractionSummary(c *gin.Context) {
	rng := periodRange(c)
	bucket := reporting.BucketFor(rng.Period)
	defer h.observeQuery("interaction_summary", time.Now())

	summary, timeline, fb, err := h.repos.Interaction.GetSummary(c.Request.Context(), rng, bucket)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate interaction summary")
		utils.SendReportError(c, err)
		return
	}
	if summary == nil {
		h.markNoData("interaction_summary")
		utils.SendReportError(c, errors.NoData("No interaction data found for period %s (%s)", rng.Period, rng))
		return
	}
	if timeline == nil {
		timeline = []models.InteractionTimelinePoint{}
	}

	debug := reporting.NewDebug(rng)
	debug.Aggregation = bucket.String()
	if fb.Used {
		h.markFallback("interaction_summary", rng.Period)
		debug.UsedFallback = true
		debug.FallbackDate = fb.Anchor
	}
	utils.SendSuccessWithTimelineDebug(c, summary, timeline, debug)
}
