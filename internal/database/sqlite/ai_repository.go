package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/internal/database/repositories"
)

// trailingModelSamples is how many (date, model) rows the trailing-window
// fallback pulls: 12 dates x 3 models in the reference dataset.
const trailingModelSamples = 36

// AIRepository implements repositories.AIRepository
type AIRepository struct {
	db *sqlx.DB
}

// NewAIRepository creates a new AIRepository
func NewAIRepository(db *sqlx.DB) repositories.AIRepository {
	return &AIRepository{db: db}
}

// GetModelTrend returns the raw accuracy samples inside the window in
// chronological order, or the trailing samples when the window is empty.
func (r *AIRepository) GetModelTrend(ctx context.Context, rng reporting.Range) ([]models.ModelAccuracyPoint, repositories.Fallback, error) {
	query := `
		SELECT record_date, model_name, accuracy
		FROM ai_model_performance
		WHERE record_date BETWEEN ? AND ?
		ORDER BY record_date ASC
	`

	var points []models.ModelAccuracyPoint
	if err := r.db.SelectContext(ctx, &points, query, rng.Start, rng.End); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to get model trend: %w", err)
	}
	if len(points) > 0 {
		return points, repositories.Fallback{}, nil
	}

	fallbackQuery := `
		SELECT record_date, model_name, accuracy
		FROM ai_model_performance
		ORDER BY record_date DESC
		LIMIT ?
	`
	if err := r.db.SelectContext(ctx, &points, fallbackQuery, trailingModelSamples); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to load trailing model samples: %w", err)
	}
	if len(points) == 0 {
		return nil, repositories.Fallback{}, nil
	}

	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, repositories.Fallback{Used: true, Anchor: points[len(points)-1].RecordDate}, nil
}

// GetModelAggregates averages accuracy and response time per model over the
// window, with the same trailing-window fallback as the trend.
func (r *AIRepository) GetModelAggregates(ctx context.Context, rng reporting.Range) ([]models.ModelAggregate, repositories.Fallback, error) {
	query := `
		SELECT model_name, AVG(accuracy) as avg_accuracy, AVG(response_time_ms) as avg_response_time
		FROM ai_model_performance
		WHERE record_date BETWEEN ? AND ?
		GROUP BY model_name
	`

	var aggregates []models.ModelAggregate
	if err := r.db.SelectContext(ctx, &aggregates, query, rng.Start, rng.End); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to aggregate model performance: %w", err)
	}
	if len(aggregates) > 0 {
		return aggregates, repositories.Fallback{}, nil
	}

	fallbackQuery := `
		SELECT model_name, AVG(accuracy) as avg_accuracy, AVG(response_time_ms) as avg_response_time
		FROM (
			SELECT * FROM ai_model_performance
			ORDER BY record_date DESC
			LIMIT ?
		)
		GROUP BY model_name
	`
	if err := r.db.SelectContext(ctx, &aggregates, fallbackQuery, trailingModelSamples); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to aggregate trailing model samples: %w", err)
	}
	if len(aggregates) == 0 {
		return nil, repositories.Fallback{}, nil
	}

	anchor, err := latestDate(ctx, r.db, "ai_model_performance")
	if err != nil {
		return nil, repositories.Fallback{}, err
	}
	return aggregates, repositories.Fallback{Used: true, Anchor: anchor}, nil
}

// GetRingMetrics aggregates the three ring-widget values over the window.
// Satisfaction is stored on a 5-point scale and scaled to a percentage;
// the conversion rate is derived from trends joined on the KPI snapshot.
func (r *AIRepository) GetRingMetrics(ctx context.Context, rng reporting.Range) (*models.AIRingMetrics, error) {
	var accuracy sql.NullFloat64
	err := r.db.GetContext(ctx, &accuracy, `
		SELECT AVG(accuracy)
		FROM ai_model_performance
		WHERE record_date BETWEEN ? AND ?
	`, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to average model accuracy: %w", err)
	}

	var satisfaction sql.NullFloat64
	err = r.db.GetContext(ctx, &satisfaction, `
		SELECT AVG(overall_satisfaction)
		FROM customer_satisfaction
		WHERE record_date BETWEEN ? AND ?
	`, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to average satisfaction: %w", err)
	}

	var conversionRate sql.NullFloat64
	err = r.db.GetContext(ctx, &conversionRate, `
		SELECT AVG(
			CASE WHEN o.total_customers > 0 THEN (ct.conversions * 100.0 / o.total_customers) ELSE 0 END
		)
		FROM conversion_trends ct
		LEFT JOIN overview_kpis o ON DATE(ct.record_date) = DATE(o.record_date)
		WHERE ct.record_date BETWEEN ? AND ?
	`, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to average conversion rate: %w", err)
	}

	return &models.AIRingMetrics{
		Accuracy:         math.Round(accuracy.Float64*100) / 100,
		UserSatisfaction: math.Round(satisfaction.Float64*20*100) / 100,
		ConversionRate:   math.Round(conversionRate.Float64*100) / 100,
	}, nil
}

// GetFeaturePerformance returns all AI feature adoption rows.
func (r *AIRepository) GetFeaturePerformance(ctx context.Context) ([]models.FeaturePerformance, error) {
	query := `
		SELECT id, record_date, feature_name, adoption_rate, satisfaction_score, revenue_contribution
		FROM ai_feature_performance
	`

	var features []models.FeaturePerformance
	if err := r.db.SelectContext(ctx, &features, query); err != nil {
		return nil, fmt.Errorf("failed to get feature performance: %w", err)
	}
	return features, nil
}
