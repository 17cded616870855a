package repositories

import (
	"context"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
	"github.com/smartshopie/analytics-backend-go/internal/database/models"
)

// Fallback reports whether a query substituted degraded data for an empty
// primary window, and the anchor date of the substituted snapshot/window.
type Fallback struct {
	Used   bool
	Anchor string
}

// OverviewRepository serves the overview tab: KPI tiles, the conversion
// funnel and the interaction-type mix.
type OverviewRepository interface {
	// GetKPIs aggregates the KPI snapshot over the window. Returns nil when
	// the window holds no rows at all.
	GetKPIs(ctx context.Context, r reporting.Range) (*models.OverviewKPIs, error)

	// GetFunnel aggregates funnel stages over the window, falling back to
	// the latest complete snapshot when the window is empty.
	GetFunnel(ctx context.Context, r reporting.Range) ([]models.FunnelStage, Fallback, error)

	// GetInteractionTypes aggregates the interaction mix over the window,
	// falling back to the latest snapshot when the window is empty.
	GetInteractionTypes(ctx context.Context, r reporting.Range) ([]models.InteractionType, Fallback, error)
}

// ConversionRepository serves conversion analytics and trend charts.
type ConversionRepository interface {
	// GetAnalytics returns the most recent analytics row within the window,
	// or the latest row overall when the window is empty.
	GetAnalytics(ctx context.Context, r reporting.Range) (*models.ConversionAnalytics, Fallback, error)

	// GetTrends returns the bucketed conversion series. The conversion rate
	// is derived by joining the daily KPI snapshot on date.
	GetTrends(ctx context.Context, r reporting.Range, bucket reporting.Bucket) ([]models.TrendPoint, Fallback, error)
}

// CustomerRepository serves the customers tab.
type CustomerRepository interface {
	GetSegments(ctx context.Context, r reporting.Range) ([]models.CustomerSegment, Fallback, error)
	GetBehavioralPatterns(ctx context.Context, r reporting.Range) ([]models.BehavioralPattern, Fallback, error)
	GetConcerns(ctx context.Context, r reporting.Range) ([]models.CustomerConcern, error)
	GetLifetimeValue(ctx context.Context, r reporting.Range) ([]models.LifetimeValue, Fallback, error)
	GetProductGaps(ctx context.Context, r reporting.Range) ([]models.ProductGap, error)
	GetInteractions(ctx context.Context, r reporting.Range, limit int) ([]models.CustomerInteraction, Fallback, error)
	GetSatisfaction(ctx context.Context, r reporting.Range) ([]models.SatisfactionPoint, error)
}

// ProductRepository serves the products tab.
type ProductRepository interface {
	GetAnalytics(ctx context.Context, limit int) ([]models.ProductAnalytics, error)
	GetTopRecommended(ctx context.Context, r reporting.Range, limit int) ([]models.RecommendedProduct, error)
	GetCategoryPerformance(ctx context.Context) ([]models.CategoryPerformance, error)

	// GetCategoryAggregates feeds the cross-sell/upsell estimate: views
	// summed, rates averaged, per category, latest snapshot as fallback.
	GetCategoryAggregates(ctx context.Context, r reporting.Range, limit int) ([]models.CategoryPerformance, Fallback, error)
}

// AIRepository serves the AI performance tab.
type AIRepository interface {
	// GetModelTrend returns raw (date, model, accuracy) points in the
	// window, or the trailing 36 samples when the window is empty.
	GetModelTrend(ctx context.Context, r reporting.Range) ([]models.ModelAccuracyPoint, Fallback, error)

	// GetModelAggregates returns per-model accuracy/latency averages with
	// the same trailing-window fallback.
	GetModelAggregates(ctx context.Context, r reporting.Range) ([]models.ModelAggregate, Fallback, error)

	// GetRingMetrics aggregates the accuracy/satisfaction/conversion ring.
	GetRingMetrics(ctx context.Context, r reporting.Range) (*models.AIRingMetrics, error)

	GetFeaturePerformance(ctx context.Context) ([]models.FeaturePerformance, error)
}

// InteractionRepository serves the interaction summary and its timeline.
type InteractionRepository interface {
	GetSummary(ctx context.Context, r reporting.Range, bucket reporting.Bucket) (*models.InteractionSummary, []models.InteractionTimelinePoint, Fallback, error)
}

// RevenueRepository serves the revenue tab.
type RevenueRepository interface {
	GetSummary(ctx context.Context, r reporting.Range) (*models.RevenueSummary, Fallback, error)
	GetAttribution(ctx context.Context, r reporting.Range, bucket reporting.Bucket) ([]models.AttributionPoint, Fallback, error)
	GetCategoryRevenue(ctx context.Context) ([]models.CategoryRevenue, error)
	GetCustomerValue(ctx context.Context) ([]models.CustomerValue, error)
	GetForecasting(ctx context.Context) ([]models.ForecastPoint, error)
}

// RealtimeRepository serves the live monitor. Samples are returned as-is in
// chronological order; there is no aggregation and no fallback.
type RealtimeRepository interface {
	// GetSamplesSince returns samples strictly after the cursor, ascending,
	// capped at the poll page size.
	GetSamplesSince(ctx context.Context, since string) ([]models.RealtimeSample, error)

	// GetRecentSamples returns the most recent window in ascending order.
	GetRecentSamples(ctx context.Context) ([]models.RealtimeSample, error)

	GetAPIEndpoints(ctx context.Context) ([]models.APIEndpointHealth, error)
}

// BillingRepository serves the billing tab. Payment and alert tables vary
// between deployments, so lookups go through the table registry.
type BillingRepository interface {
	GetSummary(ctx context.Context) (*models.BillingSummary, error)
	GetUsageBreakdown(ctx context.Context) ([]models.UsageBreakdown, error)
	GetPayments(ctx context.Context, limit int) ([]models.Payment, error)
	GetAlerts(ctx context.Context, limit int) ([]models.UsageAlert, error)
}

// ConfigRepository serves the API configuration screen.
type ConfigRepository interface {
	GetAPIConfigurations(ctx context.Context) ([]models.APIConfiguration, error)
}
