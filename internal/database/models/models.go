package models

// Row models for the reporting tables. Every table is a time-series of
// snapshot facts keyed by record_date plus an optional dimension column;
// rows are seeded out-of-band and never written by the serving path. JSON
// tags match the field names the dashboard frontend consumes.

// OverviewKPIs is the aggregated KPI tile set for the overview tab.
// total_customers is a latest-value metric (MAX over the window), the
// change/rate fields are averaged and the volume fields are summed.
type OverviewKPIs struct {
	TotalCustomers       int     `json:"total_customers" db:"total_customers"`
	TotalCustomersChange float64 `json:"total_customers_change" db:"total_customers_change"`
	ConversionRate       float64 `json:"conversion_rate" db:"conversion_rate"`
	ConversionRateChange float64 `json:"conversion_rate_change" db:"conversion_rate_change"`
	AIInteractions       int     `json:"ai_interactions" db:"ai_interactions"`
	AIInteractionsChange float64 `json:"ai_interactions_change" db:"ai_interactions_change"`
	RevenueImpact        float64 `json:"revenue_impact" db:"revenue_impact"`
	RevenueImpactChange  float64 `json:"revenue_impact_change" db:"revenue_impact_change"`
}

// FunnelStage is one of the five fixed conversion-funnel stages.
type FunnelStage struct {
	StageName   string  `json:"stage_name" db:"stage_name"`
	StageOrder  int     `json:"stage_order" db:"stage_order"`
	Count       int     `json:"count" db:"count"`
	StageCount  int     `json:"stage_count" db:"-"`
	Percentage  float64 `json:"percentage" db:"percentage"`
	DropoffRate float64 `json:"dropoff_rate" db:"dropoff_rate"`
}

// InteractionType is one slice of the interaction-mix donut chart.
type InteractionType struct {
	InteractionName string  `json:"interaction_name" db:"interaction_name"`
	InteractionKind string  `json:"interaction_type" db:"-"`
	Count           int     `json:"count" db:"count"`
	Percentage      float64 `json:"percentage" db:"percentage"`
}

// ConversionAnalytics is the latest analytics row within a window.
type ConversionAnalytics struct {
	ID                    int     `json:"id" db:"id"`
	RecordDate            string  `json:"record_date" db:"record_date"`
	OverallConversionRate float64 `json:"overall_conversion_rate" db:"overall_conversion_rate"`
	ConversionRateChange  float64 `json:"conversion_rate_change" db:"conversion_rate_change"`
	AIDrivenConversions   float64 `json:"ai_driven_conversions" db:"ai_driven_conversions"`
	AIDrivenPercentage    float64 `json:"ai_driven_percentage" db:"ai_driven_percentage"`
	CartRecoveryRate      float64 `json:"cart_recovery_rate" db:"cart_recovery_rate"`
	CartRecoveryViaAI     float64 `json:"cart_recovery_via_ai" db:"cart_recovery_via_ai"`
	AvgTimeToConvert      float64 `json:"avg_time_to_convert" db:"avg_time_to_convert"`
	AvgTimeChange         float64 `json:"avg_time_change" db:"avg_time_change"`
}

// TrendPoint is one bucket of the conversion trend chart. ConversionRate is
// derived at query time from the joined daily KPI snapshot, never stored.
type TrendPoint struct {
	RecordDate              string  `json:"record_date" db:"record_date"`
	Conversions             int     `json:"conversions" db:"conversions"`
	AIAttributedConversions int     `json:"ai_attributed_conversions" db:"ai_attributed_conversions"`
	ConversionRate          float64 `json:"conversion_rate" db:"conversion_rate"`
}

// CustomerSegment is one aggregated customer segment.
type CustomerSegment struct {
	SegmentName       string  `json:"segment_name" db:"segment_name"`
	SegmentSize       int     `json:"segment_size" db:"segment_size"`
	SegmentPercentage float64 `json:"segment_percentage" db:"percentage"`
	AvgLifetimeValue  float64 `json:"avg_lifetime_value" db:"avg_lifetime_value"`
	AvgOrderValue     float64 `json:"avg_order_value" db:"avg_order_value"`
}

// BehavioralPattern is the latest value of one behavioral metric within the
// window; patterns are point-in-time readings, not summable volumes.
type BehavioralPattern struct {
	PatternType string  `json:"pattern_type" db:"pattern_type"`
	PatternName string  `json:"pattern_name" db:"pattern_name"`
	Value       float64 `json:"value" db:"value"`
	MetricUnit  string  `json:"metric_unit" db:"metric_unit"`
}

// CustomerConcern is one aggregated concern topic.
type CustomerConcern struct {
	ConcernName     string  `json:"concern_name" db:"concern_name"`
	ConcernCategory string  `json:"concern_category" db:"concern_category"`
	QueryCount      int     `json:"query_count" db:"query_count"`
	AISuccessRate   float64 `json:"ai_success_rate" db:"ai_success_rate"`
}

// LifetimeValue is the averaged CLV pair for one customer-age bucket.
type LifetimeValue struct {
	SegmentName  string  `json:"segment_name" db:"segment_name"`
	CurrentCLV   float64 `json:"current_clv" db:"current_clv"`
	PredictedCLV float64 `json:"predicted_clv" db:"predicted_clv"`
}

// ProductGap is one unmet-demand entry ranked by total demand.
type ProductGap struct {
	GapRank          int     `json:"gap_rank" db:"-"`
	ProductName      string  `json:"product_name" db:"product_name"`
	Category         string  `json:"category" db:"category"`
	DemandScore      int     `json:"demand_score" db:"demand_score"`
	PotentialRevenue float64 `json:"potential_revenue" db:"potential_revenue"`
}

// CustomerInteraction is one logged AI-assistant interaction.
type CustomerInteraction struct {
	ID              int     `json:"id" db:"id"`
	InteractionDate string  `json:"interaction_date" db:"interaction_date"`
	CustomerID      string  `json:"customer_id" db:"customer_id"`
	InteractionType string  `json:"interaction_type" db:"interaction_type"`
	Channel         string  `json:"channel" db:"channel"`
	Outcome         string  `json:"outcome" db:"outcome"`
	DurationSeconds float64 `json:"duration_seconds" db:"duration_seconds"`
}

// ProductAnalytics is one product's performance row.
type ProductAnalytics struct {
	ID                int     `json:"id" db:"id"`
	RecordDate        string  `json:"record_date" db:"record_date"`
	ProductID         string  `json:"product_id" db:"product_id"`
	ProductName       string  `json:"product_name" db:"product_name"`
	Category          string  `json:"category" db:"category"`
	Views             int     `json:"views" db:"views"`
	AIRecommendations int     `json:"ai_recommendations" db:"ai_recommendations"`
	Purchases         int     `json:"purchases" db:"purchases"`
	Revenue           float64 `json:"revenue" db:"revenue"`
	ConversionRate    float64 `json:"conversion_rate" db:"conversion_rate"`
}

// RecommendedProduct is one row of the top-recommended ranking.
type RecommendedProduct struct {
	ProductName     string  `json:"product_name" db:"product_name"`
	Recommendations int     `json:"recommendations" db:"recommendations"`
	ConversionRate  float64 `json:"conversion_rate" db:"conversion_rate"`
	Revenue         float64 `json:"revenue" db:"revenue"`
}

// CategoryPerformance is one product category's aggregate row.
type CategoryPerformance struct {
	ID                   int     `json:"id" db:"id"`
	RecordDate           string  `json:"record_date" db:"record_date"`
	CategoryName         string  `json:"category_name" db:"category_name"`
	TotalProducts        int     `json:"total_products" db:"total_products"`
	TotalViews           int     `json:"total_views" db:"total_views"`
	TotalRevenue         float64 `json:"total_revenue" db:"total_revenue"`
	AvgConversionRate    float64 `json:"avg_conversion_rate" db:"avg_conversion_rate"`
	AIRecommendationRate float64 `json:"ai_recommendation_rate" db:"ai_recommendation_rate"`
}

// CrossSellUpsell is the derived cross-sell/upsell estimate per category.
type CrossSellUpsell struct {
	Category  string `json:"category"`
	CrossSell int    `json:"cross_sell"`
	Upsell    int    `json:"upsell"`
}

// ModelAccuracyPoint is one (date, model) accuracy sample.
type ModelAccuracyPoint struct {
	RecordDate string  `json:"record_date" db:"record_date"`
	ModelName  string  `json:"model_name" db:"model_name"`
	Accuracy   float64 `json:"accuracy" db:"accuracy"`
}

// ModelAggregate is one model's averages over a window.
type ModelAggregate struct {
	ModelName       string  `json:"model_name" db:"model_name"`
	AvgAccuracy     float64 `json:"avg_accuracy" db:"avg_accuracy"`
	AvgResponseTime float64 `json:"avg_response_time" db:"avg_response_time"`
}

// AIRingMetrics feeds the accuracy/satisfaction/conversion ring widget.
type AIRingMetrics struct {
	Accuracy         float64 `json:"accuracy"`
	UserSatisfaction float64 `json:"user_satisfaction"`
	ConversionRate   float64 `json:"conversion_rate"`
}

// AISummary is the AI-performance KPI block.
type AISummary struct {
	Accuracy         float64 `json:"accuracy"`
	ResponseTimeMs   int     `json:"response_time_ms"`
	Confidence       float64 `json:"confidence"`
	ABWinner         string  `json:"ab_winner"`
	ABImprovementPct float64 `json:"ab_improvement_pct"`
}

// FeaturePerformance is one AI feature's adoption row.
type FeaturePerformance struct {
	ID                  int     `json:"id" db:"id"`
	RecordDate          string  `json:"record_date" db:"record_date"`
	FeatureName         string  `json:"feature_name" db:"feature_name"`
	AdoptionRate        float64 `json:"adoption_rate" db:"adoption_rate"`
	SatisfactionScore   float64 `json:"satisfaction_score" db:"satisfaction_score"`
	RevenueContribution float64 `json:"revenue_contribution" db:"revenue_contribution"`
}

// InteractionSummary is the aggregated interaction totals for a window.
type InteractionSummary struct {
	TotalInteractions        int     `json:"total_interactions" db:"total_interactions"`
	ChatInteractions         int     `json:"chat_interactions" db:"chat_interactions"`
	QuestionnaireInteractions int    `json:"questionnaire_interactions" db:"questionnaire_interactions"`
	ImageAnalysisInteractions int    `json:"image_analysis_interactions" db:"image_analysis_interactions"`
	RoutinePlannerInteractions int   `json:"routine_planner_interactions" db:"routine_planner_interactions"`
	AvgResponseTime          float64 `json:"avg_response_time" db:"avg_response_time"`
}

// InteractionTimelinePoint is one bucket of the interaction-mix timeline.
type InteractionTimelinePoint struct {
	Date                      string `json:"date" db:"date"`
	QuestionnaireInteractions int    `json:"questionnaire_interactions" db:"questionnaire"`
	ChatInteractions          int    `json:"chat_interactions" db:"chat"`
	ImageAnalysisInteractions int    `json:"image_analysis_interactions" db:"image"`
	RoutinePlannerInteractions int   `json:"routine_planner_interactions" db:"routine"`
}

// RevenueSummary is the averaged revenue KPI block for a window. ROI is the
// roi_percentage expressed as a decimal fraction.
type RevenueSummary struct {
	TotalRevenueImpact       float64 `json:"total_revenue_impact" db:"total_revenue_impact"`
	AvgOrderValue            float64 `json:"avg_order_value" db:"avg_order_value"`
	AvgOrderValueWithAI      float64 `json:"avg_order_value_with_ai" db:"avg_order_value_with_ai"`
	AvgOrderValueImprovement float64 `json:"avg_order_value_improvement" db:"avg_order_value_improvement"`
	MonthlyInvestment        float64 `json:"monthly_investment" db:"monthly_investment"`
	MonthlyReturn            float64 `json:"monthly_return" db:"monthly_return"`
	ROIPercentage            float64 `json:"roi_percentage" db:"roi_percentage"`
	ROI                      float64 `json:"roi" db:"-"`
}

// SatisfactionPoint is one day's satisfaction scores.
type SatisfactionPoint struct {
	RecordDate          string  `json:"record_date" db:"record_date"`
	OverallSatisfaction float64 `json:"overall_satisfaction" db:"overall_satisfaction"`
	ProductMatchQuality float64 `json:"product_match_quality" db:"product_match_quality"`
	AIHelpfulness       float64 `json:"ai_helpfulness" db:"ai_helpfulness"`
}

// AttributionPoint is one (bucket, feature) cell of the revenue-attribution
// timeline. RevenueSource mirrors AIFeature for older chart code.
type AttributionPoint struct {
	RecordDate    string  `json:"record_date" db:"record_date"`
	AIFeature     string  `json:"ai_feature" db:"ai_feature"`
	RevenueSource string  `json:"revenue_source" db:"-"`
	RevenueAmount float64 `json:"revenue_amount" db:"revenue_amount"`
	Percentage    float64 `json:"percentage" db:"percentage"`
}

// CategoryRevenue is one category's revenue share.
type CategoryRevenue struct {
	ID            int     `json:"id" db:"id"`
	RecordDate    string  `json:"record_date" db:"record_date"`
	CategoryName  string  `json:"category_name" db:"category_name"`
	RevenueAmount float64 `json:"revenue_amount" db:"revenue_amount"`
	Percentage    float64 `json:"percentage" db:"percentage"`
}

// CustomerValue is one tier of the customer value analysis.
type CustomerValue struct {
	ID                    int     `json:"id" db:"id"`
	RecordDate            string  `json:"record_date" db:"record_date"`
	SegmentName           string  `json:"segment_name" db:"segment_name"`
	CustomerCount         int     `json:"customer_count" db:"customer_count"`
	TotalRevenue          float64 `json:"total_revenue" db:"total_revenue"`
	AvgRevenuePerCustomer float64 `json:"avg_revenue_per_customer" db:"avg_revenue_per_customer"`
}

// ForecastPoint is one forecasted month.
type ForecastPoint struct {
	ID               int     `json:"id" db:"id"`
	RecordDate       string  `json:"record_date" db:"record_date"`
	ForecastDate     string  `json:"forecast_date" db:"forecast_date"`
	PredictedRevenue float64 `json:"predicted_revenue" db:"predicted_revenue"`
	ConfidenceLevel  float64 `json:"confidence_level" db:"confidence_level"`
}

// RealtimeSample is one minute-resolution live metric sample. Samples are
// never aggregated, only returned as an ordered series.
type RealtimeSample struct {
	RecordedAt        string  `json:"recorded_at" db:"recorded_at"`
	ActiveSessions    int     `json:"active_sessions" db:"active_sessions"`
	APIResponseTimeMs int     `json:"api_response_time_ms" db:"api_response_time_ms"`
	CPUUsagePct       float64 `json:"cpu_usage_pct" db:"cpu_usage_pct"`
	MemoryUsagePct    float64 `json:"memory_usage_pct" db:"memory_usage_pct"`
	ConversionsPerMin int     `json:"conversions_per_min" db:"conversions_per_min"`
}

// APIEndpointHealth is one monitored endpoint's health row.
type APIEndpointHealth struct {
	ID            int     `json:"id" db:"id"`
	EndpointName  string  `json:"endpoint_name" db:"endpoint_name"`
	BaseURL       string  `json:"base_url" db:"base_url"`
	AvgResponseMs int     `json:"avg_response_ms" db:"avg_response_ms"`
	SuccessRate   float64 `json:"success_rate" db:"success_rate"`
	DailyCalls    int     `json:"daily_calls" db:"daily_calls"`
	ErrorRate     float64 `json:"error_rate" db:"error_rate"`
	LastChecked   string  `json:"last_checked" db:"last_checked"`
}

// BillingSummary is the current subscription's cost breakdown.
type BillingSummary struct {
	PlanName            string  `json:"plan_name" db:"plan_name"`
	MonthlyPrice        float64 `json:"monthly_price" db:"monthly_price"`
	RenewalDate         string  `json:"renewal_date" db:"renewal_date"`
	SubscriptionAmount  float64 `json:"subscription_amount" db:"subscription_amount"`
	ChatAmount          float64 `json:"chat_amount" db:"chat_amount"`
	ImageAmount         float64 `json:"image_amount" db:"image_amount"`
	QuestionnaireAmount float64 `json:"questionnaire_amount" db:"questionnaire_amount"`
	OverageAmount       float64 `json:"overage_amount" db:"overage_amount"`
	TotalEstimated      float64 `json:"total_estimated" db:"total_estimated"`
}

// UsageBreakdown is one month's metered usage for one usage type.
type UsageBreakdown struct {
	Month       string `json:"month" db:"month"`
	UsageType   string `json:"usage_type" db:"usage_type"`
	Used        int    `json:"used" db:"used"`
	FreeLimit   int    `json:"free_limit" db:"free_limit"`
	OverageRate string `json:"overage_rate" db:"overage_rate"`
	OverageCost string `json:"overage_cost" db:"overage_cost"`
	TotalUsage  int    `json:"total_usage" db:"total_usage"`
}

// Payment is one billing payment record.
type Payment struct {
	PaymentDate string  `json:"payment_date" db:"payment_date"`
	Description string  `json:"description" db:"description"`
	Amount      float64 `json:"amount" db:"amount"`
	Status      string  `json:"status" db:"status"`
	InvoiceURL  string  `json:"invoice_url" db:"invoice_url"`
}

// UsageAlert is one usage warning shown on the billing tab.
type UsageAlert struct {
	Level     string `json:"level" db:"level"`
	Title     string `json:"title" db:"title"`
	Message   string `json:"message" db:"message"`
	CreatedAt string `json:"created_at" db:"created_at"`
}

// APIConfiguration is the latest configuration per API type.
type APIConfiguration struct {
	ID            int    `json:"id" db:"id"`
	APIType       string `json:"api_type" db:"api_type"`
	APIName       string `json:"api_name" db:"api_name"`
	APIURL        string `json:"api_url" db:"api_url"`
	APIKey        string `json:"api_key" db:"api_key"`
	Status        string `json:"status" db:"status"`
	LastSync      string `json:"last_sync" db:"last_sync"`
	SyncFrequency string `json:"sync_frequency" db:"sync_frequency"`
}
