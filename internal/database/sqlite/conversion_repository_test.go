package sqlite

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
)

func seedTrendRow(t *testing.T, db *sqlx.DB, date string, conversions, aiAttributed int) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO conversion_trends (record_date, conversions, ai_attributed_conversions)
		VALUES (?, ?, ?)`,
		date, conversions, aiAttributed)
	require.NoError(t, err)
}

func TestGetTrends_DerivesRateFromKPIJoin(t *testing.T) {
	db := testDB(t, conversionTrendsSchema, overviewKPISchema)
	repo := NewConversionRepository(db)

	date := daysAgo(2)
	seedTrendRow(t, db, date, 50, 20)
	seedKPIRow(t, db, date, 1000, 10, 500.0)

	rng := reporting.ResolveNow("30d")
	points, fallback, err := repo.GetTrends(context.Background(), rng, reporting.BucketFor("30d"))
	require.NoError(t, err)
	assert.False(t, fallback.Used)
	require.Len(t, points, 1)

	assert.Equal(t, date, points[0].RecordDate)
	assert.Equal(t, 50, points[0].Conversions)
	assert.Equal(t, 20, points[0].AIAttributedConversions)
	// 50 conversions out of 1000 customers.
	assert.InDelta(t, 5.0, points[0].ConversionRate, 0.001)
}

func TestGetTrends_RateIsZeroWithoutKPIRow(t *testing.T) {
	db := testDB(t, conversionTrendsSchema, overviewKPISchema)
	repo := NewConversionRepository(db)

	seedTrendRow(t, db, daysAgo(1), 40, 10)

	points, _, err := repo.GetTrends(context.Background(), reporting.ResolveNow("30d"), reporting.Daily)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Zero(t, points[0].ConversionRate)
}

func TestGetTrends_WeeklyBucketsCollapseToMonday(t *testing.T) {
	db := testDB(t, conversionTrendsSchema, overviewKPISchema)
	repo := NewConversionRepository(db)

	// Spread rows across the window; every row lands on some Monday key
	// and conversions within one ISO week sum together.
	for i := 1; i <= 80; i++ {
		seedTrendRow(t, db, daysAgo(i), 10, 4)
	}

	rng := reporting.ResolveNow("90d")
	points, fallback, err := repo.GetTrends(context.Background(), rng, reporting.BucketFor("90d"))
	require.NoError(t, err)
	assert.False(t, fallback.Used)
	require.NotEmpty(t, points)

	// 80 daily rows collapse into at most 13 weekly buckets.
	assert.LessOrEqual(t, len(points), 13)

	total := 0
	for i, p := range points {
		total += p.Conversions
		if i > 0 {
			assert.Less(t, points[i-1].RecordDate, p.RecordDate, "buckets must be chronological")
		}
	}
	assert.Equal(t, 800, total, "bucketing must not lose conversions")
}

func TestGetTrends_FallbackReturnsTrailingRowsAscending(t *testing.T) {
	db := testDB(t, conversionTrendsSchema, overviewKPISchema)
	repo := NewConversionRepository(db)

	// Data exists only far in the past.
	seedTrendRow(t, db, daysAgo(400), 30, 10)
	seedTrendRow(t, db, daysAgo(399), 35, 12)

	points, fallback, err := repo.GetTrends(context.Background(), reporting.ResolveNow("7d"), reporting.Daily)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, fallback.Used)
	assert.Equal(t, daysAgo(399), fallback.Anchor)
	assert.Less(t, points[0].RecordDate, points[1].RecordDate)
}

func TestGetAnalytics_LatestRowInWindow(t *testing.T) {
	db := testDB(t, `
		CREATE TABLE conversion_analytics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			record_date TEXT NOT NULL,
			overall_conversion_rate REAL,
			conversion_rate_change REAL,
			ai_driven_conversions REAL,
			ai_driven_percentage REAL,
			cart_recovery_rate REAL,
			cart_recovery_via_ai REAL,
			avg_time_to_convert REAL,
			avg_time_change REAL
		)`)
	repo := NewConversionRepository(db)

	for i, rate := range []float64{3.1, 3.4, 3.8} {
		_, err := db.Exec(`
			INSERT INTO conversion_analytics (record_date, overall_conversion_rate,
				conversion_rate_change, ai_driven_conversions, ai_driven_percentage,
				cart_recovery_rate, cart_recovery_via_ai, avg_time_to_convert, avg_time_change)
			VALUES (?, ?, 0.2, 120, 40, 18, 60, 2.5, -0.1)`,
			daysAgo(3-i), rate)
		require.NoError(t, err)
	}

	row, fallback, err := repo.GetAnalytics(context.Background(), reporting.ResolveNow("30d"))
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.False(t, fallback.Used)
	assert.Equal(t, daysAgo(1), row.RecordDate)
	assert.InDelta(t, 3.8, row.OverallConversionRate, 0.001)
}
