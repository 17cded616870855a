package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/internal/database/repositories"
	"github.com/smartshopie/analytics-backend-go/pkg/utils"
)

// sendWithFallback sends a list report, attaching the debug side-channel and
// recording the fallback metric when the data was substituted.
func (h *Handlers) sendWithFallback(c *gin.Context, report string, rng reporting.Range, data interface{}, fb repositories.Fallback) {
	if fb.Used {
		h.markFallback(report, rng.Period)
		debug := reporting.NewDebug(rng)
		debug.UsedFallback = true
		debug.FallbackDate = fb.Anchor
		utils.SendSuccessWithDebug(c, data, debug)
		return
	}
	utils.SendSuccess(c, data)
}

// GetCustomerSegments serves the aggregated segment breakdown.
func (h *Handlers) GetCustomerSegments(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("customer_segments", time.Now())

	segments, fb, err := h.repos.Customer.GetSegments(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate customer segments")
		utils.SendReportError(c, err)
		return
	}
	if segments == nil {
		segments = []models.CustomerSegment{}
	}
	h.sendWithFallback(c, "customer_segments", rng, segments, fb)
}

// GetBehavioralPatterns serves the latest behavioral readings in the period.
func (h *Handlers) GetBehavioralPatterns(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("behavioral_patterns", time.Now())

	patterns, fb, err := h.repos.Customer.GetBehavioralPatterns(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to load behavioral patterns")
		utils.SendReportError(c, err)
		return
	}
	if patterns == nil {
		patterns = []models.BehavioralPattern{}
	}
	h.sendWithFallback(c, "behavioral_patterns", rng, patterns, fb)
}

// GetCustomerConcerns serves the top concern topics for the period.
func (h *Handlers) GetCustomerConcerns(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("customer_concerns", time.Now())

	concerns, err := h.repos.Customer.GetConcerns(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate customer concerns")
		utils.SendReportError(c, err)
		return
	}
	if concerns == nil {
		concerns = []models.CustomerConcern{}
	}
	utils.SendSuccess(c, concerns)
}

// GetLifetimeValue serves the CLV-by-age chart in fixed bucket order.
func (h *Handlers) GetLifetimeValue(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("lifetime_value", time.Now())

	values, fb, err := h.repos.Customer.GetLifetimeValue(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate lifetime value")
		utils.SendReportError(c, err)
		return
	}
	if values == nil {
		values = []models.LifetimeValue{}
	}
	h.sendWithFallback(c, "lifetime_value", rng, values, fb)
}

// GetProductGaps serves the ranked unmet-demand list.
func (h *Handlers) GetProductGaps(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("product_gaps", time.Now())

	gaps, err := h.repos.Customer.GetProductGaps(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate product gaps")
		utils.SendReportError(c, err)
		return
	}
	if gaps == nil {
		gaps = []models.ProductGap{}
	}
	utils.SendSuccess(c, gaps)
}

// GetCustomerInteractions serves the most recent logged interactions.
func (h *Handlers) GetCustomerInteractions(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("customer_interactions", time.Now())

	interactions, fb, err := h.repos.Customer.GetInteractions(c.Request.Context(), rng, h.cfg.Reports.InteractionLimit)
	if err != nil {
		h.log.WithError(err).Error("Failed to load customer interactions")
		utils.SendReportError(c, err)
		return
	}
	if interactions == nil {
		interactions = []models.CustomerInteraction{}
	}
	h.sendWithFallback(c, "customer_interactions", rng, interactions, fb)
}

// GetSatisfactionTrends serves the raw daily satisfaction series.
func (h *Handlers) GetSatisfactionTrends(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("satisfaction_trends", time.Now())

	points, err := h.repos.Customer.GetSatisfaction(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to load satisfaction trends")
		utils.SendReportError(c, err)
		return
	}
	if points == nil {
		points = []models.SatisfactionPoint{}
	}
	utils.SendSuccess(c, points)
}
