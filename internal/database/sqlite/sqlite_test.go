package sqlite

import (
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// testDB opens an in-memory store with the reporting schema subset the
// repository under test needs.
func testDB(t *testing.T, schemas ...string) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, schema := range schemas {
		_, err := db.Exec(schema)
		require.NoError(t, err)
	}
	return db
}

const overviewKPISchema = `
	CREATE TABLE overview_kpis (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_date TEXT NOT NULL,
		total_customers INTEGER,
		total_customers_change REAL,
		conversion_rate REAL,
		conversion_rate_change REAL,
		ai_interactions INTEGER,
		ai_interactions_change REAL,
		revenue_impact REAL,
		revenue_impact_change REAL
	)`

const funnelSchema = `
	CREATE TABLE conversion_funnel (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_date TEXT NOT NULL,
		stage_name TEXT NOT NULL,
		stage_order INTEGER NOT NULL,
		count INTEGER,
		percentage REAL,
		dropoff_rate REAL
	)`

const interactionTypesSchema = `
	CREATE TABLE interaction_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_date TEXT NOT NULL,
		interaction_name TEXT NOT NULL,
		count INTEGER,
		percentage REAL
	)`

const conversionTrendsSchema = `
	CREATE TABLE conversion_trends (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_date TEXT NOT NULL,
		conversions INTEGER,
		ai_attributed_conversions INTEGER
	)`

const customerSegmentsSchema = `
	CREATE TABLE customer_segments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_date TEXT NOT NULL,
		segment_name TEXT NOT NULL,
		segment_size INTEGER,
		percentage REAL,
		avg_lifetime_value REAL,
		avg_order_value REAL
	)`

const interactionSummarySchema = `
	CREATE TABLE interaction_summary (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_date TEXT NOT NULL,
		total_interactions INTEGER,
		chat_interactions INTEGER,
		questionnaire_interactions INTEGER,
		image_analysis_interactions INTEGER,
		routine_planner_interactions INTEGER,
		avg_response_time REAL
	)`

const realtimeMetricsSchema = `
	CREATE TABLE realtime_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		recorded_at TEXT NOT NULL,
		active_sessions INTEGER,
		api_response_time_ms INTEGER,
		cpu_usage_pct REAL,
		memory_usage_pct REAL,
		conversions_per_min INTEGER
	)`

const modelPerformanceSchema = `
	CREATE TABLE ai_model_performance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_date TEXT NOT NULL,
		model_name TEXT NOT NULL,
		accuracy REAL,
		response_time_ms INTEGER
	)`

const satisfactionSchema = `
	CREATE TABLE customer_satisfaction (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_date TEXT NOT NULL,
		overall_satisfaction REAL,
		product_match_quality REAL,
		ai_helpfulness REAL
	)`

const revenueAttributionSchema = `
	CREATE TABLE revenue_attribution (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		record_date TEXT NOT NULL,
		ai_feature TEXT NOT NULL,
		revenue_amount REAL,
		percentage REAL
	)`

// daysAgo formats a calendar date n days before today, matching how the
// period resolver anchors windows at the wall clock.
func daysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).Format("2006-01-02")
}

func seedKPIRow(t *testing.T, db *sqlx.DB, date string, customers, interactions int, revenue float64) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO overview_kpis (record_date, total_customers, total_customers_change,
			conversion_rate, conversion_rate_change, ai_interactions, ai_interactions_change,
			revenue_impact, revenue_impact_change)
		VALUES (?, ?, 1.0, 3.0, 0.5, ?, 2.0, ?, 4.0)`,
		date, customers, interactions, revenue)
	require.NoError(t, err)
}

func seedFunnelSnapshot(t *testing.T, db *sqlx.DB, date string) {
	t.Helper()
	stages := []struct {
		name  string
		order int
		count int
	}{
		{"Visitors", 0, 1000},
		{"Product Views", 1, 640},
		{"Add to Cart", 2, 280},
		{"Checkout", 3, 150},
		{"Purchase", 4, 90},
	}
	for _, s := range stages {
		_, err := db.Exec(`
			INSERT INTO conversion_funnel (record_date, stage_name, stage_order, count, percentage, dropoff_rate)
			VALUES (?, ?, ?, ?, ?, ?)`,
			date, s.name, s.order, s.count, float64(s.count)/10.0, 5.0)
		require.NoError(t, err)
	}
}

func seedInteractionDay(t *testing.T, db *sqlx.DB, date string, chat, questionnaire, image, routine int) {
	t.Helper()
	total := chat + questionnaire + image + routine
	_, err := db.Exec(`
		INSERT INTO interaction_summary (record_date, total_interactions, chat_interactions,
			questionnaire_interactions, image_analysis_interactions, routine_planner_interactions,
			avg_response_time)
		VALUES (?, ?, ?, ?, ?, ?, 1.2)`,
		date, total, chat, questionnaire, image, routine)
	require.NoError(t, err)
}

func seedRealtimeSample(t *testing.T, db *sqlx.DB, minutesAgo int, sessions int) string {
	t.Helper()
	recordedAt := time.Now().Add(-time.Duration(minutesAgo) * time.Minute).UTC().Format("2006-01-02T15:04:05")
	_, err := db.Exec(`
		INSERT INTO realtime_metrics (recorded_at, active_sessions, api_response_time_ms,
			cpu_usage_pct, memory_usage_pct, conversions_per_min)
		VALUES (?, ?, 120, 35.5, 61.2, 3)`,
		recordedAt, sessions)
	require.NoError(t, err)
	return recordedAt
}

func seedModelSample(t *testing.T, db *sqlx.DB, date, model string, accuracy float64, responseMs int) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO ai_model_performance (record_date, model_name, accuracy, response_time_ms)
		VALUES (?, ?, ?, ?)`,
		date, model, accuracy, responseMs)
	require.NoError(t, err)
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)))
	return n
}
