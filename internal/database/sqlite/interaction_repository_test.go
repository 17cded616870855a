package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
)

func TestGetSummary_AggregatesWindow(t *testing.T) {
	db := testDB(t, interactionSummarySchema)
	repo := NewInteractionRepository(db)

	seedInteractionDay(t, db, daysAgo(2), 100, 40, 20, 10)
	seedInteractionDay(t, db, daysAgo(1), 120, 50, 25, 15)

	summary, timeline, fallback, err := repo.GetSummary(
		context.Background(), reporting.ResolveNow("30d"), reporting.Daily)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.False(t, fallback.Used)

	assert.Equal(t, 380, summary.TotalInteractions)
	assert.Equal(t, 220, summary.ChatInteractions)
	assert.Equal(t, 90, summary.QuestionnaireInteractions)
	assert.InDelta(t, 1.2, summary.AvgResponseTime, 0.001)

	require.Len(t, timeline, 2)
	assert.Less(t, timeline[0].Date, timeline[1].Date)
	assert.Equal(t, 100, timeline[0].ChatInteractions)
}

func TestGetSummary_TrailingFallbackRebuildsSummary(t *testing.T) {
	db := testDB(t, interactionSummarySchema)
	repo := NewInteractionRepository(db)

	// Only ancient data; a 7d window misses it entirely.
	seedInteractionDay(t, db, daysAgo(400), 80, 30, 10, 5)
	seedInteractionDay(t, db, daysAgo(399), 90, 35, 12, 8)

	summary, timeline, fallback, err := repo.GetSummary(
		context.Background(), reporting.ResolveNow("7d"), reporting.Daily)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.True(t, fallback.Used)
	assert.Equal(t, daysAgo(399), fallback.Anchor)

	require.Len(t, timeline, 2)
	assert.Less(t, timeline[0].Date, timeline[1].Date)

	// The KPI block is rebuilt from the substituted timeline so tiles and
	// chart agree; the response time is unknown for that window.
	assert.Equal(t, 270, summary.TotalInteractions)
	assert.Equal(t, 170, summary.ChatInteractions)
	assert.Zero(t, summary.AvgResponseTime)
}

func TestGetSummary_NoDataAnywhere(t *testing.T) {
	db := testDB(t, interactionSummarySchema)
	repo := NewInteractionRepository(db)

	summary, timeline, fallback, err := repo.GetSummary(
		context.Background(), reporting.ResolveNow("30d"), reporting.Daily)
	require.NoError(t, err)
	assert.Nil(t, summary)
	assert.Empty(t, timeline)
	assert.False(t, fallback.Used)
}

func TestGetSummary_WeeklyTimelineBuckets(t *testing.T) {
	db := testDB(t, interactionSummarySchema)
	repo := NewInteractionRepository(db)

	for i := 1; i <= 85; i++ {
		seedInteractionDay(t, db, daysAgo(i), 10, 5, 2, 1)
	}

	summary, timeline, fallback, err := repo.GetSummary(
		context.Background(), reporting.ResolveNow("90d"), reporting.BucketFor("90d"))
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.False(t, fallback.Used)

	assert.LessOrEqual(t, len(timeline), 14)
	assert.Greater(t, len(timeline), 10)

	chatTotal := 0
	for _, p := range timeline {
		chatTotal += p.ChatInteractions
	}
	assert.Equal(t, 850, chatTotal, "weekly bucketing must not lose interactions")
}
