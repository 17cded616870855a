package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/pkg/errors"
	"github.com/smartshopie/analytics-backend-go/pkg/utils"
)

// GetBillingSummary serves the current subscription cost breakdown.
func (h *Handlers) GetBillingSummary(c *gin.Context) {
	defer h.observeQuery("billing_summary", time.Now())

	summary, err := h.repos.Billing.GetSummary(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to load billing summary")
		utils.SendReportError(c, err)
		return
	}
	if summary == nil {
		h.markNoData("billing_summary")
		utils.SendReportError(c, errors.NoData("No billing summary available"))
		return
	}
	utils.SendSuccess(c, summary)
}

// GetUsageBreakdown serves the monthly metered-usage rows.
func (h *Handlers) GetUsageBreakdown(c *gin.Context) {
	defer h.observeQuery("usage_breakdown", time.Now())

	usage, err := h.repos.Billing.GetUsageBreakdown(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to load usage breakdown")
		utils.SendReportError(c, err)
		return
	}
	if usage == nil {
		usage = []models.UsageBreakdown{}
	}
	utils.SendSuccess(c, usage)
}

// GetPaymentHistory serves recent payments from whichever payment table the
// deployment carries. Deployments without one get an empty list, not an
// error.
func (h *Handlers) GetPaymentHistory(c *gin.Context) {
	defer h.observeQuery("payment_history", time.Now())

	payments, err := h.repos.Billing.GetPayments(c.Request.Context(), h.cfg.Reports.PaymentHistoryLimit)
	if err != nil {
		h.log.WithError(err).Error("Failed to load payment history")
		utils.SendReportError(c, err)
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	utils.SendSuccess(c, payments)
}

// GetUsageAlerts serves recent usage alerts, empty when the deployment has
// no alert table.
func (h *Handlers) GetUsageAlerts(c *gin.Context) {
	defer h.observeQuery("usage_alerts", time.Now())

	alerts, err := h.repos.Billing.GetAlerts(c.Request.Context(), h.cfg.Reports.AlertsLimit)
	if err != nil {
		h.log.WithError(err).Error("Failed to load usage alerts")
		utils.SendReportError(c, err)
		return
	}
	if alerts == nil {
		alerts = []models.UsageAlert{}
	}
	utils.SendSuccess(c, alerts)
}
