package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/pkg/errors"
	"github.com/smartshopie/analytics-backend-go/pkg/utils"
)

// GetOverviewKPIs serves the KPI tile block for the selected period.
func (h *Handlers) GetOverviewKPIs(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("overview_kpis", time.Now())

	kpis, err := h.repos.Overview.GetKPIs(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate overview KPIs")
		utils.SendReportError(c, err)
		return
	}
	if kpis == nil {
		h.markNoData("overview_kpis")
		utils.SendReportError(c, errors.NoData("No KPI data found for period %s (%s)", rng.Period, rng))
		return
	}

	debug := reporting.NewDebug(rng)
	debug.Aggregation = "MAX/AVG/SUM mix"
	utils.SendSuccessWithDebug(c, kpis, debug)
}

// GetConversionFunnel serves the aggregated funnel for the selected period.
// A complete funnel has exactly five stages; anything less is structurally
// missing data, not a partial answer.
func (h *Handlers) GetConversionFunnel(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("conversion_funnel", time.Now())

	stages, fb, err := h.repos.Overview.GetFunnel(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate conversion funnel")
		utils.SendReportError(c, err)
		return
	}

	debug := reporting.NewDebug(rng)
	if fb.Used {
		h.markFallback("conversion_funnel", rng.Period)
		debug.UsedFallback = true
		debug.FallbackDate = fb.Anchor
		utils.SendSuccessWithDebug(c, stages, debug)
		return
	}

	if len(stages) == 0 {
		h.markNoData("conversion_funnel")
		utils.SendReportError(c, errors.NoData("No funnel data found for period %s (%s)", rng.Period, rng))
		return
	}
	if len(stages) < 5 {
		h.markNoData("conversion_funnel")
		utils.SendReportError(c, errors.NoData("Incomplete funnel data for period %s (found %d/5 stages)", rng.Period, len(stages)))
		return
	}

	debug.StagesCount = len(stages)
	utils.SendSuccessWithDebug(c, stages, debug)
}

// GetInteractionTypes serves the interaction-mix donut for the period.
func (h *Handlers) GetInteractionTypes(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("interaction_types", time.Now())

	types, fb, err := h.repos.Overview.GetInteractionTypes(c.Request.Context(), rng)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate interaction types")
		utils.SendReportError(c, err)
		return
	}
	if types == nil {
		types = []models.InteractionType{}
	}

	if fb.Used {
		h.markFallback("interaction_types", rng.Period)
		debug := reporting.NewDebug(rng)
		debug.UsedFallback = true
		debug.FallbackDate = fb.Anchor
		utils.SendSuccessWithDebug(c, types, debug)
		return
	}
	utils.SendSuccess(c, types)
}
