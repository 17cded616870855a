package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/smartshopie/analytics-backend-go/internal/config"
	"github.com/smartshopie/analytics-backend-go/internal/database"
	"github.com/smartshopie/analytics-backend-go/internal/database/models"
)

const testSchema = `
CREATE TABLE overview_kpis (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_date TEXT NOT NULL UNIQUE,
	total_customers INTEGER NOT NULL DEFAULT 0,
	total_customers_change REAL NOT NULL DEFAULT 0,
	conversion_rate REAL NOT NULL DEFAULT 0,
	conversion_rate_change REAL NOT NULL DEFAULT 0,
	ai_interactions INTEGER NOT NULL DEFAULT 0,
	ai_interactions_change REAL NOT NULL DEFAULT 0,
	revenue_impact REAL NOT NULL DEFAULT 0,
	revenue_impact_change REAL NOT NULL DEFAULT 0
);
CREATE TABLE conversion_funnel (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_date TEXT NOT NULL,
	stage_name TEXT NOT NULL,
	stage_order INTEGER NOT NULL,
	count INTEGER NOT NULL DEFAULT 0,
	percentage REAL NOT NULL DEFAULT 0,
	dropoff_rate REAL NOT NULL DEFAULT 0
);
CREATE TABLE conversion_trends (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_date TEXT NOT NULL,
	conversions INTEGER NOT NULL DEFAULT 0,
	ai_attributed_conversions INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE customer_satisfaction (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_date TEXT NOT NULL,
	overall_satisfaction REAL NOT NULL DEFAULT 0,
	product_match_quality REAL NOT NULL DEFAULT 0,
	ai_helpfulness REAL NOT NULL DEFAULT 0
);
CREATE TABLE ai_model_performance (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_date TEXT NOT NULL,
	model_name TEXT NOT NULL,
	accuracy REAL NOT NULL DEFAULT 0,
	response_time_ms REAL NOT NULL DEFAULT 0
);
CREATE TABLE interaction_summary (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_date TEXT NOT NULL,
	total_interactions INTEGER NOT NULL DEFAULT 0,
	chat_interactions INTEGER NOT NULL DEFAULT 0,
	questionnaire_interactions INTEGER NOT NULL DEFAULT 0,
	image_analysis_interactions INTEGER NOT NULL DEFAULT 0,
	routine_planner_interactions INTEGER NOT NULL DEFAULT 0,
	avg_response_time REAL NOT NULL DEFAULT 0
);
CREATE TABLE category_performance (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_date TEXT NOT NULL,
	category_name TEXT NOT NULL,
	total_products INTEGER NOT NULL DEFAULT 0,
	total_views INTEGER NOT NULL DEFAULT 0,
	total_revenue REAL NOT NULL DEFAULT 0,
	avg_conversion_rate REAL NOT NULL DEFAULT 0,
	ai_recommendation_rate REAL NOT NULL DEFAULT 0
);
CREATE TABLE realtime_metrics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT NOT NULL,
	active_sessions INTEGER NOT NULL DEFAULT 0,
	api_response_time_ms INTEGER NOT NULL DEFAULT 0,
	cpu_usage_pct REAL NOT NULL DEFAULT 0,
	memory_usage_pct REAL NOT NULL DEFAULT 0,
	conversions_per_min INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE api_configurations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	api_type TEXT NOT NULL,
	api_name TEXT NOT NULL DEFAULT '',
	api_url TEXT NOT NULL DEFAULT '',
	api_key TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'active',
	last_sync TEXT NOT NULL DEFAULT '',
	sync_frequency TEXT NOT NULL DEFAULT ''
);
`

func testConfig() *config.Config {
	return &config.Config{
		Reports: config.ReportsConfig{
			CrossSellSplit:      0.6,
			UpsellSplit:         0.4,
			InteractionLimit:    10,
			ProductLimit:        20,
			RecommendedLimit:    5,
			CategoryLimit:       8,
			PaymentHistoryLimit: 12,
			AlertsLimit:         20,
		},
	}
}

// newTestServer builds a router over an in-memory store. Routes register
// directly so tests never touch the process-wide metrics registry.
func newTestServer(t *testing.T) (*gin.Engine, *sqlx.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	registry, err := database.BuildRegistry(context.Background(), db, log)
	require.NoError(t, err)

	repos := database.NewRepositories(db, registry)
	h := NewHandlers(testConfig(), repos, db, log, nil)

	router := gin.New()
	router.GET("/api/overview/kpis", h.GetOverviewKPIs)
	router.GET("/api/overview/funnel", h.GetConversionFunnel)
	router.GET("/api/products/cross-sell-upsell", h.GetCrossSellUpsell)
	router.GET("/api/ai/model-performance", h.GetModelPerformance)
	router.GET("/api/ai/summary", h.GetAISummary)
	router.GET("/api/interactions/summary", h.GetInteractionSummary)
	router.GET("/api/realtime/system-health", h.GetRealtimeMetrics)
	router.GET("/api/billing/payment-history", h.GetPaymentHistory)
	router.GET("/api/config", h.GetAPIConfigurations)

	return router, db
}

func doGet(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func recentDate(daysAgo int) string {
	return time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
}

func TestGetOverviewKPIs(t *testing.T) {
	router, db := newTestServer(t)

	for day := 1; day <= 3; day++ {
		_, err := db.Exec(`
			INSERT INTO overview_kpis (record_date, total_customers, total_customers_change,
				conversion_rate, conversion_rate_change, ai_interactions, ai_interactions_change,
				revenue_impact, revenue_impact_change)
			VALUES (?, ?, 1.0, 3.0, 0.5, ?, 2.0, ?, 1.5)
		`, recentDate(day), 100+day*10, 15, 500.0)
		require.NoError(t, err)
	}

	w, body := doGet(t, router, "/api/overview/kpis?period=7d")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(130), data["total_customers"])
	assert.Equal(t, float64(45), data["ai_interactions"])
	assert.Equal(t, float64(1500), data["revenue_impact"])
	assert.InDelta(t, 3.0, data["conversion_rate"], 0.001)

	debug := body["_debug"].(map[string]interface{})
	assert.Equal(t, "7d", debug["period"])
	assert.Equal(t, "MAX/AVG/SUM mix", debug["aggregation"])
	assert.Equal(t, false, debug["used_fallback"])
}

func TestGetOverviewKPIsNoData(t *testing.T) {
	router, _ := newTestServer(t)

	w, body := doGet(t, router, "/api/overview/kpis")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "No KPI data found for period 30d")
}

func TestGetOverviewKPIsDefaultsUnknownPeriod(t *testing.T) {
	router, db := newTestServer(t)

	// 20 days back is outside 7d but inside the 30d default.
	_, err := db.Exec(`
		INSERT INTO overview_kpis (record_date, total_customers) VALUES (?, 50)
	`, recentDate(20))
	require.NoError(t, err)

	w, body := doGet(t, router, "/api/overview/kpis?period=banana")
	assert.Equal(t, http.StatusOK, w.Code)
	debug := body["_debug"].(map[string]interface{})
	assert.Equal(t, "30d", debug["period"])
}

func TestGetConversionFunnelIncomplete(t *testing.T) {
	router, db := newTestServer(t)

	stages := []string{"Visitors", "Product Views", "Add to Cart"}
	for i, name := range stages {
		_, err := db.Exec(`
			INSERT INTO conversion_funnel (record_date, stage_name, stage_order, count, percentage, dropoff_rate)
			VALUES (?, ?, ?, 100, 10.0, 5.0)
		`, recentDate(1), name, i+1)
		require.NoError(t, err)
	}

	w, body := doGet(t, router, "/api/overview/funnel?period=7d")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, body["message"], "found 3/5 stages")
}

func TestGetConversionFunnelComplete(t *testing.T) {
	router, db := newTestServer(t)

	stages := []string{"Visitors", "Product Views", "Add to Cart", "Checkout", "Purchase"}
	for i, name := range stages {
		_, err := db.Exec(`
			INSERT INTO conversion_funnel (record_date, stage_name, stage_order, count, percentage, dropoff_rate)
			VALUES (?, ?, ?, ?, 10.0, 5.0)
		`, recentDate(1), name, i+1, 1000-i*200)
		require.NoError(t, err)
	}

	w, body := doGet(t, router, "/api/overview/funnel?period=7d")
	assert.Equal(t, http.StatusOK, w.Code)

	data := body["data"].([]interface{})
	require.Len(t, data, 5)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Visitors", first["stage_name"])
	assert.Equal(t, float64(1000), first["count"])

	debug := body["_debug"].(map[string]interface{})
	assert.Equal(t, float64(5), debug["stages_count"])
}

func TestGetCrossSellUpsellSplits(t *testing.T) {
	router, db := newTestServer(t)

	// 10000 views * 50% recommendation rate * 10% conversion = 500 expected.
	_, err := db.Exec(`
		INSERT INTO category_performance (record_date, category_name, total_views, avg_conversion_rate, ai_recommendation_rate)
		VALUES (?, 'Skincare', 10000, 10.0, 50.0)
	`, recentDate(2))
	require.NoError(t, err)

	w, body := doGet(t, router, "/api/products/cross-sell-upsell?period=7d")
	assert.Equal(t, http.StatusOK, w.Code)

	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	entry := data[0].(map[string]interface{})
	assert.Equal(t, "Skincare", entry["category"])
	assert.Equal(t, float64(300), entry["cross_sell"])
	assert.Equal(t, float64(200), entry["upsell"])
}

func TestGetModelPerformanceChart(t *testing.T) {
	router, db := newTestServer(t)

	dates := []string{recentDate(3), recentDate(2), recentDate(1)}
	for _, d := range dates {
		_, err := db.Exec(`
			INSERT INTO ai_model_performance (record_date, model_name, accuracy, response_time_ms)
			VALUES (?, 'recommender-v2', 94.0, 120), (?, 'baseline', 88.0, 95)
		`, d, d)
		require.NoError(t, err)
	}
	// One model misses a day; its series keeps a null there.
	_, err := db.Exec(`
		DELETE FROM ai_model_performance WHERE model_name = 'baseline' AND record_date = ?
	`, dates[1])
	require.NoError(t, err)

	w, body := doGet(t, router, "/api/ai/model-performance?period=7d")
	assert.Equal(t, http.StatusOK, w.Code)

	categories := body["categories"].([]interface{})
	require.Len(t, categories, 3)
	assert.Equal(t, dates[0], categories[0])
	assert.Equal(t, dates[2], categories[2])

	series := body["series"].([]interface{})
	require.Len(t, series, 2)
	baseline := series[0].(map[string]interface{})
	assert.Equal(t, "baseline", baseline["name"])
	points := baseline["data"].([]interface{})
	require.Len(t, points, 3)
	assert.Nil(t, points[1])
	assert.Equal(t, 88.0, points[0])
}

func TestGetAISummaryWinnerAndBaseline(t *testing.T) {
	router, db := newTestServer(t)

	_, err := db.Exec(`
		INSERT INTO ai_model_performance (record_date, model_name, accuracy, response_time_ms) VALUES
		(?, 'recommender-v2', 94.0, 120),
		(?, 'baseline-rules', 80.0, 95),
		(?, 'recommender-v1', 90.0, 110)
	`, recentDate(1), recentDate(1), recentDate(1))
	require.NoError(t, err)

	w, body := doGet(t, router, "/api/ai/summary?period=7d")
	assert.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]interface{})
	// accuracy, response time and confidence average across the fleet,
	// not just the winner: (94+80+90)/3 and int((120+95+110)/3).
	assert.InDelta(t, 88.0, data["accuracy"], 0.001)
	assert.Equal(t, float64(108), data["response_time_ms"])
	assert.InDelta(t, 0.88, data["confidence"], 0.001)
	assert.Equal(t, "recommender-v2", data["ab_winner"])
	// (94 - 80) / 80 = 17.5% over the named baseline, not the runner-up.
	assert.InDelta(t, 17.5, data["ab_improvement_pct"], 0.001)
}

func TestSummarizeModelsFleetAverages(t *testing.T) {
	summary := summarizeModels([]models.ModelAggregate{
		{ModelName: "recommender-v2.3", AvgAccuracy: 90.0, AvgResponseTime: 100},
		{ModelName: "Baseline", AvgAccuracy: 80.0, AvgResponseTime: 300},
	})

	assert.InDelta(t, 85.0, summary.Accuracy, 0.001)
	assert.Equal(t, 200, summary.ResponseTimeMs)
	assert.InDelta(t, 0.85, summary.Confidence, 0.001)
	assert.Equal(t, "recommender-v2.3", summary.ABWinner)
	assert.InDelta(t, 12.5, summary.ABImprovementPct, 0.001)
}

func TestSummarizeModelsSingleModel(t *testing.T) {
	summary := summarizeModels([]models.ModelAggregate{
		{ModelName: "recommender-v2", AvgAccuracy: 91.4, AvgResponseTime: 130.6},
	})

	assert.InDelta(t, 91.4, summary.Accuracy, 0.001)
	assert.Equal(t, 130, summary.ResponseTimeMs)
	assert.Equal(t, "recommender-v2", summary.ABWinner)
	// A lone model is its own baseline, so there is no lift.
	assert.InDelta(t, 0.0, summary.ABImprovementPct, 0.001)
}

func TestGetModelPerformanceRingWrapsSingleElement(t *testing.T) {
	router, db := newTestServer(t)

	_, err := db.Exec(`
		INSERT INTO ai_model_performance (record_date, model_name, accuracy, response_time_ms) VALUES
		(?, 'recommender-v2', 92.0, 120),
		(?, 'baseline', 88.0, 95)
	`, recentDate(1), recentDate(1))
	require.NoError(t, err)
	_, err = db.Exec(`
		INSERT INTO customer_satisfaction (record_date, overall_satisfaction, product_match_quality, ai_helpfulness)
		VALUES (?, 4.5, 4.0, 4.2)
	`, recentDate(1))
	require.NoError(t, err)

	w, body := doGet(t, router, "/api/ai/model-performance?period=7d&mode=ring")
	assert.Equal(t, http.StatusOK, w.Code)

	// The ring payload is a one-element list, not a bare object.
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	ring := data[0].(map[string]interface{})
	assert.InDelta(t, 90.0, ring["accuracy"], 0.001)
	assert.InDelta(t, 90.0, ring["user_satisfaction"], 0.001)
}

func TestGetInteractionSummaryEnvelope(t *testing.T) {
	router, db := newTestServer(t)

	for day := 1; day <= 3; day++ {
		_, err := db.Exec(`
			INSERT INTO interaction_summary (record_date, total_interactions, chat_interactions,
				questionnaire_interactions, image_analysis_interactions, routine_planner_interactions,
				avg_response_time)
			VALUES (?, 100, 40, 30, 20, 10, 1.2)
		`, recentDate(day))
		require.NoError(t, err)
	}

	w, body := doGet(t, router, "/api/interactions/summary?period=7d")
	assert.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(300), data["total_interactions"])
	assert.Equal(t, float64(120), data["chat_interactions"])

	timeline := body["timeline"].([]interface{})
	assert.Len(t, timeline, 3)

	debug := body["_debug"].(map[string]interface{})
	assert.Equal(t, "daily", debug["aggregation"])
	assert.Equal(t, false, debug["used_fallback"])
}

func TestGetRealtimeMetricsSinceCursor(t *testing.T) {
	router, db := newTestServer(t)

	base := time.Now().Add(-10 * time.Minute)
	var cursor string
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Minute).Format("2006-01-02 15:04:05")
		if i == 2 {
			cursor = ts
		}
		_, err := db.Exec(`
			INSERT INTO realtime_metrics (recorded_at, active_sessions) VALUES (?, ?)
		`, ts, 100+i)
		require.NoError(t, err)
	}

	w, body := doGet(t, router, "/api/realtime/system-health?since="+url.QueryEscape(cursor))
	assert.Equal(t, http.StatusOK, w.Code)

	data := body["data"].([]interface{})
	require.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	assert.Equal(t, float64(103), first["active_sessions"])
}

func TestGetPaymentHistoryWithoutTable(t *testing.T) {
	router, _ := newTestServer(t)

	w, body := doGet(t, router, "/api/billing/payment-history")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Empty(t, body["data"])
}

func TestGetAPIConfigurationsMasksKeys(t *testing.T) {
	router, db := newTestServer(t)

	_, err := db.Exec(`
		INSERT INTO api_configurations (api_type, api_name, api_key)
		VALUES ('shopify', 'Shopify Store', 'sk_live_1234567890abcdef')
	`)
	require.NoError(t, err)

	w, body := doGet(t, router, "/api/config")
	assert.Equal(t, http.StatusOK, w.Code)

	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	cfg := data[0].(map[string]interface{})
	assert.Equal(t, "sk_l...cdef", cfg["api_key"])
	assert.NotContains(t, cfg["api_key"], "1234567890")
}

func TestMaskKeyShortValues(t *testing.T) {
	assert.Equal(t, "********", maskKey("short"))
	assert.Equal(t, "sk_l...cdef", maskKey("sk_live_1234567890abcdef"))
}
