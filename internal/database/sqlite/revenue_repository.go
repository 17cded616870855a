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

// RevenueRepository implements repositories.RevenueRepository
type RevenueRepository struct {
	db *sqlx.DB
}

// NewRevenueRepository creates a new RevenueRepository
func NewRevenueRepository(db *sqlx.DB) repositories.RevenueRepository {
	return &RevenueRepository{db: db}
}

// GetSummary averages every revenue KPI over the window, falling back to
// the latest row. ROI is derived from the stored percentage.
func (r *RevenueRepository) GetSummary(ctx context.Context, rng reporting.Range) (*models.RevenueSummary, repositories.Fallback, error) {
	query := `
		SELECT
			AVG(total_revenue_impact) as total_revenue_impact,
			AVG(avg_order_value) as avg_order_value,
			AVG(avg_order_value_with_ai) as avg_order_value_with_ai,
			AVG(avg_order_value_improvement) as avg_order_value_improvement,
			AVG(monthly_investment) as monthly_investment,
			AVG(monthly_return) as monthly_return,
			AVG(roi_percentage) as roi_percentage
		FROM revenue_summary
		WHERE record_date BETWEEN ? AND ?
	`

	summary, err := r.scanSummary(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, repositories.Fallback{}, err
	}
	if summary != nil {
		return summary, repositories.Fallback{}, nil
	}

	fallbackQuery := `
		SELECT
			total_revenue_impact,
			avg_order_value,
			avg_order_value_with_ai,
			avg_order_value_improvement,
			monthly_investment,
			monthly_return,
			roi_percentage
		FROM revenue_summary
		ORDER BY record_date DESC
		LIMIT 1
	`
	summary, err = r.scanSummary(ctx, fallbackQuery)
	if err != nil {
		return nil, repositories.Fallback{}, err
	}
	if summary == nil {
		return nil, repositories.Fallback{}, nil
	}

	anchor, err := latestDate(ctx, r.db, "revenue_summary")
	if err != nil {
		return nil, repositories.Fallback{}, err
	}
	return summary, repositories.Fallback{Used: true, Anchor: anchor}, nil
}

func (r *RevenueRepository) scanSummary(ctx context.Context, query string, args ...interface{}) (*models.RevenueSummary, error) {
	var row struct {
		TotalRevenueImpact       sql.NullFloat64 `db:"total_revenue_impact"`
		AvgOrderValue            sql.NullFloat64 `db:"avg_order_value"`
		AvgOrderValueWithAI      sql.NullFloat64 `db:"avg_order_value_with_ai"`
		AvgOrderValueImprovement sql.NullFloat64 `db:"avg_order_value_improvement"`
		MonthlyInvestment        sql.NullFloat64 `db:"monthly_investment"`
		MonthlyReturn            sql.NullFloat64 `db:"monthly_return"`
		ROIPercentage            sql.NullFloat64 `db:"roi_percentage"`
	}
	err := r.db.GetContext(ctx, &row, query, args...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue summary: %w", err)
	}
	if !row.TotalRevenueImpact.Valid {
		return nil, nil
	}

	return &models.RevenueSummary{
		TotalRevenueImpact:       row.TotalRevenueImpact.Float64,
		AvgOrderValue:            row.AvgOrderValue.Float64,
		AvgOrderValueWithAI:      row.AvgOrderValueWithAI.Float64,
		AvgOrderValueImprovement: row.AvgOrderValueImprovement.Float64,
		MonthlyInvestment:        row.MonthlyInvestment.Float64,
		MonthlyReturn:            row.MonthlyReturn.Float64,
		ROIPercentage:            row.ROIPercentage.Float64,
		ROI:                      row.ROIPercentage.Float64 / 100.0,
	}, nil
}

// periodTrailingDays sizes the attribution fallback window, anchored at the
// latest stored date instead of today.
func periodTrailingDays(period string) int {
	switch period {
	case "7d":
		return 7
	case "90d":
		return 90
	case "1y":
		return 365
	default:
		return 30
	}
}

// GetAttribution aggregates revenue per (bucket, AI feature) cell: amounts
// sum, percentages average. Fallback re-runs the same aggregation over a
// window of the same length ending at the latest stored date. Each (date,
// feature) pair appears once, first seen wins.
func (r *RevenueRepository) GetAttribution(ctx context.Context, rng reporting.Range, bucket reporting.Bucket) ([]models.AttributionPoint, repositories.Fallback, error) {
	bucketExpr := bucket.SQLExpr("record_date")
	query := fmt.Sprintf(`
		SELECT
			%s as record_date,
			ai_feature,
			SUM(revenue_amount) as revenue_amount,
			AVG(percentage) as percentage
		FROM revenue_attribution
		WHERE record_date BETWEEN ? AND ?
		GROUP BY record_date, ai_feature
		ORDER BY record_date ASC, revenue_amount DESC
	`, bucketExpr)

	var points []models.AttributionPoint
	if err := r.db.SelectContext(ctx, &points, query, rng.Start, rng.End); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to aggregate revenue attribution: %w", err)
	}

	fallback := repositories.Fallback{}
	if len(points) == 0 {
		days := periodTrailingDays(rng.Period)
		fallbackQuery := fmt.Sprintf(`
			SELECT
				%s as record_date,
				ai_feature,
				SUM(revenue_amount) as revenue_amount,
				AVG(percentage) as percentage
			FROM revenue_attribution
			WHERE record_date >= date((SELECT MAX(record_date) FROM revenue_attribution), '-%d days')
			GROUP BY record_date, ai_feature
			ORDER BY record_date ASC, revenue_amount DESC
		`, bucketExpr, days)
		if err := r.db.SelectContext(ctx, &points, fallbackQuery); err != nil {
			return nil, repositories.Fallback{}, fmt.Errorf("failed to load trailing revenue attribution: %w", err)
		}
		if len(points) > 0 {
			anchor, err := latestDate(ctx, r.db, "revenue_attribution")
			if err != nil {
				return nil, repositories.Fallback{}, err
			}
			fallback = repositories.Fallback{Used: true, Anchor: anchor}
		}
	}

	seen := make(map[string]bool)
	result := make([]models.AttributionPoint, 0, len(points))
	for _, p := range points {
		key := p.RecordDate + "_" + p.AIFeature
		if seen[key] {
			continue
		}
		seen[key] = true
		p.RevenueSource = p.AIFeature
		result = append(result, p)
	}

	return result, fallback, nil
}

// GetCategoryRevenue returns category revenue shares, largest first.
func (r *RevenueRepository) GetCategoryRevenue(ctx context.Context) ([]models.CategoryRevenue, error) {
	query := `
		SELECT id, record_date, category_name, revenue_amount, percentage
		FROM category_revenue
		ORDER BY revenue_amount DESC
	`

	var categories []models.CategoryRevenue
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to get category revenue: %w", err)
	}
	return categories, nil
}

// GetCustomerValue returns the customer value tiers.
func (r *RevenueRepository) GetCustomerValue(ctx context.Context) ([]models.CustomerValue, error) {
	query := `
		SELECT id, record_date, segment_name, customer_count, total_revenue, avg_revenue_per_customer
		FROM customer_value_analysis
	`

	var tiers []models.CustomerValue
	if err := r.db.SelectContext(ctx, &tiers, query); err != nil {
		return nil, fmt.Errorf("failed to get customer value analysis: %w", err)
	}
	return tiers, nil
}

// GetForecasting returns the forecast series in chronological order.
func (r *RevenueRepository) GetForecasting(ctx context.Context) ([]models.ForecastPoint, error) {
	query := `
		SELECT id, record_date, forecast_date, predicted_revenue, confidence_level
		FROM revenue_forecasting
		ORDER BY forecast_date ASC
	`

	var points []models.ForecastPoint
	if err := r.db.SelectContext(ctx, &points, query); err != nil {
		return nil, fmt.Errorf("failed to get revenue forecast: %w", err)
	}
	return points, nil
}
