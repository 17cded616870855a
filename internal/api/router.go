package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/smartshopie/analytics-backend-go/internal/api/handlers"
	"github.com/smartshopie/analytics-backend-go/internal/api/middleware"
	"github.com/smartshopie/analytics-backend-go/internal/config"
	"github.com/smartshopie/analytics-backend-go/internal/core/metrics"
	"github.com/smartshopie/analytics-backend-go/internal/database"
)

// NewRouter creates the HTTP router with all middleware and routes wired.
func NewRouter(cfg *config.Config, repos *database.Repositories, db *sqlx.DB, log *logrus.Logger, collector *metrics.Collector) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(middleware.ErrorHandlingMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.MetricsMiddleware(collector))

	h := handlers.NewHandlers(cfg, repos, db, log, collector)

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		overview := api.Group("/overview")
		{
			overview.GET("/kpis", h.GetOverviewKPIs)
			overview.GET("/funnel", h.GetConversionFunnel)
			overview.GET("/interaction-types", h.GetInteractionTypes)
		}

		conversions := api.Group("/conversions")
		{
			conversions.GET("/analytics", h.GetConversionAnalytics)
			conversions.GET("/trends", h.GetConversionTrends)
		}

		customers := api.Group("/customers")
		{
			customers.GET("/segments", h.GetCustomerSegments)
			customers.GET("/behavioral-patterns", h.GetBehavioralPatterns)
			customers.GET("/concerns", h.GetCustomerConcerns)
			customers.GET("/lifetime-value", h.GetLifetimeValue)
			customers.GET("/product-gaps", h.GetProductGaps)
			customers.GET("/interactions", h.GetCustomerInteractions)
		}

		// Singular prefix kept for dashboard compatibility.
		api.GET("/customer/satisfaction", h.GetSatisfactionTrends)

		products := api.Group("/products")
		{
			products.GET("/analytics", h.GetProductAnalytics)
			products.GET("/recommended", h.GetTopRecommendedProducts)
			products.GET("/category-performance", h.GetCategoryPerformance)
			products.GET("/cross-sell-upsell", h.GetCrossSellUpsell)
		}

		ai := api.Group("/ai")
		{
			ai.GET("/model-performance", h.GetModelPerformance)
			ai.GET("/summary", h.GetAISummary)
			ai.GET("/feature-performance", h.GetFeaturePerformance)
		}

		api.GET("/interactions/summary", h.GetInteractionSummary)

		revenue := api.Group("/revenue")
		{
			revenue.GET("/summary", h.GetRevenueSummary)
			revenue.GET("/attribution", h.GetRevenueAttribution)
			revenue.GET("/category", h.GetCategoryRevenue)
			revenue.GET("/customer-value", h.GetCustomerValue)
			revenue.GET("/forecasting", h.GetRevenueForecasting)
		}

		realtime := api.Group("/realtime")
		{
			realtime.GET("/system-health", h.GetRealtimeMetrics)
			realtime.GET("/api-endpoints", h.GetAPIEndpoints)
		}

		billing := api.Group("/billing")
		{
			billing.GET("/summary", h.GetBillingSummary)
			billing.GET("/usage-breakdown", h.GetUsageBreakdown)
			billing.GET("/payment-history", h.GetPaymentHistory)
			billing.GET("/alerts", h.GetUsageAlerts)
		}

		api.GET("/config", h.GetAPIConfigurations)
	}

	return router
}
