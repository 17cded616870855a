package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/internal/database/repositories"
)

// ConversionRepository implements repositories.ConversionRepository
type ConversionRepository struct {
	db *sqlx.DB
}

// NewConversionRepository creates a new ConversionRepository
func NewConversionRepository(db *sqlx.DB) repositories.ConversionRepository {
	return &ConversionRepository{db: db}
}

const conversionAnalyticsColumns = `
	id, record_date, overall_conversion_rate, conversion_rate_change,
	ai_driven_conversions, ai_driven_percentage, cart_recovery_rate,
	cart_recovery_via_ai, avg_time_to_convert, avg_time_change
`

// GetAnalytics returns the most recent analytics row inside the window, or
// the latest row overall when the window is empty.
func (r *ConversionRepository) GetAnalytics(ctx context.Context, rng reporting.Range) (*models.ConversionAnalytics, repositories.Fallback, error) {
	query := `
		SELECT ` + conversionAnalyticsColumns + `
		FROM conversion_analytics
		WHERE DATE(record_date) BETWEEN DATE(?) AND DATE(?)
		ORDER BY record_date DESC
		LIMIT 1
	`

	var row models.ConversionAnalytics
	err := r.db.GetContext(ctx, &row, query, rng.Start, rng.End)
	if err == nil {
		return &row, repositories.Fallback{}, nil
	}
	if err != sql.ErrNoRows {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to get conversion analytics: %w", err)
	}

	fallbackQuery := `
		SELECT ` + conversionAnalyticsColumns + `
		FROM conversion_analytics
		ORDER BY record_date DESC
		LIMIT 1
	`
	err = r.db.GetContext(ctx, &row, fallbackQuery)
	if err == sql.ErrNoRows {
		return nil, repositories.Fallback{}, nil
	}
	if err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to get latest conversion analytics: %w", err)
	}
	return &row, repositories.Fallback{Used: true, Anchor: row.RecordDate}, nil
}

// GetTrends returns the bucketed conversion series. The conversion rate is
// derived at query time from the matching daily KPI snapshot: zero when the
// customer base is unknown, never NULL. Fallback is the trailing 100 raw
// rows in ascending order.
func (r *ConversionRepository) GetTrends(ctx context.Context, rng reporting.Range, bucket reporting.Bucket) ([]models.TrendPoint, repositories.Fallback, error) {
	bucketExpr := bucket.SQLExpr("ct.record_date")
	query := fmt.Sprintf(`
		SELECT
			%s as record_date,
			SUM(ct.conversions) as conversions,
			SUM(ct.ai_attributed_conversions) as ai_attributed_conversions,
			AVG(CASE
				WHEN o.total_customers > 0 THEN (ct.conversions * 100.0 / o.total_customers)
				ELSE 0
			END) as conversion_rate
		FROM conversion_trends ct
		LEFT JOIN overview_kpis o ON DATE(ct.record_date) = DATE(o.record_date)
		WHERE ct.record_date BETWEEN ? AND ?
		GROUP BY %s
		ORDER BY record_date ASC
	`, bucketExpr, bucketExpr)

	var points []models.TrendPoint
	if err := r.db.SelectContext(ctx, &points, query, rng.Start, rng.End); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to aggregate conversion trends: %w", err)
	}
	if len(points) > 0 {
		return points, repositories.Fallback{}, nil
	}

	fallbackQuery := `
		SELECT
			ct.record_date,
			ct.conversions,
			ct.ai_attributed_conversions,
			CASE
				WHEN o.total_customers > 0 THEN (ct.conversions * 100.0 / o.total_customers)
				ELSE 0
			END as conversion_rate
		FROM conversion_trends ct
		LEFT JOIN overview_kpis o ON DATE(ct.record_date) = DATE(o.record_date)
		ORDER BY ct.record_date DESC
		LIMIT 100
	`
	if err := r.db.SelectContext(ctx, &points, fallbackQuery); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to load trailing conversion trends: %w", err)
	}
	if len(points) == 0 {
		return nil, repositories.Fallback{}, nil
	}

	// Query returns newest first; charts want chronological order.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, repositories.Fallback{Used: true, Anchor: points[len(points)-1].RecordDate}, nil
}
