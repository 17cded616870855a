package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/pkg/errors"
	"github.com/smartshopie/analytics-backend-go/pkg/utils"
)

// GetRevenueSummary serves the averaged revenue KPI block.
func (h *Handlers) GetRevenueSummary(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("revenue_summary", time.Now())

	summary, fb, err := h.repos.Revenue.GetSummary(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate revenue summary")
		utils.SendReportError(c, err)
		return
	}
	if summary == nil {
		h.markNoData("revenue_summary")
		utils.SendReportError(c, errors.NoData("No revenue data found for period %s (%s)", rng.Period, rng))
		return
	}

	debug := reporting.NewDebug(rng)
	if fb.Used {
		h.markFallback("revenue_summary", rng.Period)
		debug.UsedFallback = true
		debug.FallbackDate = fb.Anchor
	}
	utils.SendSuccessWithDebug(c, summary, debug)
}

// GetRevenueAttribution serves the bucketed per-feature attribution series.
func (h *Handlers) GetRevenueAttribution(c *gin.Context) {
	rng := periodRange(c)
	bucket := reporting.BucketFor(rng.Period)
	defer h.observeQuery("revenue_attribution", time.Now())

	points, fb, err := h.repos.Revenue.GetAttribution(c.Request.Context(), rng, bucket)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate revenue attribution")
		utils.SendReportError(c, err)
		return
	}
	if points == nil {
		points = []models.AttributionPoint{}
	}

	debug := reporting.NewDebug(rng)
	debug.Aggregation = bucket.String()
	if fb.Used {
		h.markFallback("revenue_attribution", rng.Period)
		debug.UsedFallback = true
		debug.FallbackDate = fb.Anchor
	}
	utils.SendSuccessWithDebug(c, points, debug)
}

// GetCategoryRevenue serves the revenue share per category.
func (h *Handlers) GetCategoryRevenue(c *gin.Context) {
	defer h.observeQuery("category_revenue", time.Now())

	categories, err := h.repos.Revenue.GetCategoryRevenue(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to load category revenue")
		utils.SendReportError(c, err)
		return
	}
	if categories == nil {
		categories = []models.CategoryRevenue{}
	}
	utils.SendSuccess(c, categories)
}

// GetCustomerValue serves the customer value tier rows.
func (h *Handlers) GetCustomerValue(c *gin.Context) {
	defer h.observeQuery("customer_value", time.Now())

	tiers, err := h.repos.Revenue.GetCustomerValue(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to load customer value analysis")
		utils.SendReportError(c, err)
		return
	}
	if tiers == nil {
		tiers = []models.CustomerValue{}
	}
	utils.SendSuccess(c, tiers)
}

// GetRevenueForecasting serves the forecasted revenue months.
func (h *Handlers) GetRevenueForecasting(c *gin.Context) {
	defer h.observeQuery("revenue_forecasting", time.Now())

	forecast, err := h.repos.Revenue.GetForecasting(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to load revenue forecast")
		utils.SendReportError(c, err)
		return
	}
	if forecast == nil {
		forecast = []models.ForecastPoint{}
	}
	utils.SendSuccess(c, forecast)
}
