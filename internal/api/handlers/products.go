package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/pkg/utils"
)

// GetProductAnalytics serves the per-product performance table.
func (h *Handlers) GetProductAnalytics(c *gin.Context) {
	defer h.observeQuery("product_analytics", time.Now())

	products, err := h.repos.Product.GetAnalytics(c.Request.Context(), h.cfg.Reports.ProductLimit)
	if err != nil {
		h.log.WithError(err).Error("Failed to load product analytics")
		utils.SendReportError(c, err)
		return
	}
	if products == nil {
		products = []models.ProductAnalytics{}
	}
	utils.SendSuccess(c, products)
}

// GetTopRecommendedProducts serves the top products by AI recommendations.
func (h *Handlers) GetTopRecommendedProducts(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("top_recommended", time.Now())

	products, err := h.repos.Product.GetTopRecommended(c.Request.Context(), rng, h.cfg.Reports.RecommendedLimit)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate top recommended products")
		utils.SendReportError(c, err)
		return
	}
	if products == nil {
		products = []models.RecommendedProduct{}
	}
	utils.SendSuccess(c, products)
}

// GetCategoryPerformance serves the raw category performance rows.
func (h *Handlers) GetCategoryPerformance(c *gin.Context) {
	defer h.observeQuery("category_performance", time.Now())

	categories, err := h.repos.Product.GetCategoryPerformance(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to load category performance")
		utils.SendReportError(c, err)
		return
	}
	if categories == nil {
		categories = []models.CategoryPerformance{}
	}
	utils.SendSuccess(c, categories)
}

// GetCrossSellUpsell derives cross-sell and upsell opportunity counts per
// category. The estimate is the expected AI-recommended purchase volume,
// split between cross-sell and upsell by the configured ratios.
func (h *Handlers) GetCrossSellUpsell(c *gin.Context) {
	rng := periodRange(c)
	defer h.observeQuery("cross_sell_upsell", time.Now())

	categories, fb, err := h.repos.Product.GetCategoryAggregates(c.Request.Context(), rng, h.cfg.Reports.CategoryLimit)
	if err != nil {
		h.log.WithError(err).Error("Failed to aggregate category data for cross-sell estimate")
		utils.SendReportError(c, err)
		return
	}

	estimates := make([]models.CrossSellUpsell, 0, len(categories))
	for _, cat := range categories {
		expected := float64(cat.TotalViews) * (cat.AIRecommendationRate / 100) * (cat.AvgConversionRate / 100)
		estimates = append(estimates, models.CrossSellUpsell{
			Category:  cat.CategoryName,
			CrossSell: int(expected * h.cfg.Reports.CrossSellSplit),
			Upsell:    int(expected * h.cfg.Reports.UpsellSplit),
		})
	}
	h.sendWithFallback(c, "cross_sell_upsell", rng, estimates, fb)
}
