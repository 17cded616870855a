package sqlite

import (
	"context"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/internal/database/repositories"
)

// CustomerRepository implements repositories.CustomerRepository
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *sqlx.DB) repositories.CustomerRepository {
	return &CustomerRepository{db: db}
}

// clvSegmentOrder ranks the customer-age buckets for display. Unknown
// bucket names sort last.
const clvSegmentOrder = `
	CASE %s
		WHEN '0-30d' THEN 1
		WHEN '31-60d' THEN 2
		WHEN '61-90d' THEN 3
		WHEN '91-180d' THEN 4
		WHEN '181-365d' THEN 5
		WHEN '1-2y' THEN 6
		WHEN '2y+' THEN 7
		ELSE 8
	END
`

// GetSegments aggregates segments over the window: sizes sum, the value
// columns average. Falls back to the latest snapshot; zero percentages are
// recomputed from the summed sizes either way.
func (r *CustomerRepository) GetSegments(ctx context.Context, rng reporting.Range) ([]models.CustomerSegment, repositories.Fallback, error) {
	query := `
		SELECT
			segment_name,
			SUM(segment_size) as segment_size,
			AVG(percentage) as percentage,
			AVG(avg_lifetime_value) as avg_lifetime_value,
			AVG(avg_order_value) as avg_order_value
		FROM customer_segments
		WHERE record_date BETWEEN ? AND ?
		GROUP BY segment_name
		ORDER BY segment_size DESC
	`

	var segments []models.CustomerSegment
	if err := r.db.SelectContext(ctx, &segments, query, rng.Start, rng.End); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to aggregate customer segments: %w", err)
	}

	fallback := repositories.Fallback{}
	if len(segments) == 0 {
		fallbackQuery := `
			SELECT segment_name, segment_size, percentage, avg_lifetime_value, avg_order_value
			FROM customer_segments
			WHERE record_date = (SELECT MAX(record_date) FROM customer_segments)
			ORDER BY segment_size DESC
		`
		if err := r.db.SelectContext(ctx, &segments, fallbackQuery); err != nil {
			return nil, repositories.Fallback{}, fmt.Errorf("failed to load segment snapshot: %w", err)
		}
		if len(segments) > 0 {
			anchor, err := latestDate(ctx, r.db, "customer_segments")
			if err != nil {
				return nil, repositories.Fallback{}, err
			}
			fallback = repositories.Fallback{Used: true, Anchor: anchor}
		}
	}

	total := 0
	for _, s := range segments {
		total += s.SegmentSize
	}
	for i := range segments {
		pct := segments[i].SegmentPercentage
		if pct == 0 && total > 0 {
			pct = float64(segments[i].SegmentSize) / float64(total) * 100
		}
		segments[i].SegmentPercentage = math.Round(pct*10) / 10
	}

	return segments, fallback, nil
}

// GetBehavioralPatterns returns the latest reading per pattern type within
// the window. Patterns are point-in-time metrics, so summing or averaging
// across days would double-count; only the newest row per type counts.
func (r *CustomerRepository) GetBehavioralPatterns(ctx context.Context, rng reporting.Range) ([]models.BehavioralPattern, repositories.Fallback, error) {
	query := `
		SELECT bp1.pattern_type, bp1.pattern_name, bp1.value, bp1.metric_unit
		FROM behavioral_patterns bp1
		INNER JOIN (
			SELECT pattern_type, MAX(record_date) as max_date
			FROM behavioral_patterns
			WHERE record_date BETWEEN ? AND ?
			GROUP BY pattern_type
		) bp2 ON bp1.pattern_type = bp2.pattern_type AND bp1.record_date = bp2.max_date
		ORDER BY bp1.pattern_type
	`

	var patterns []models.BehavioralPattern
	if err := r.db.SelectContext(ctx, &patterns, query, rng.Start, rng.End); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to get behavioral patterns: %w", err)
	}

	fallback := repositories.Fallback{}
	if len(patterns) == 0 {
		fallbackQuery := `
			SELECT pattern_type, pattern_name, value, metric_unit
			FROM behavioral_patterns
			WHERE record_date = (SELECT MAX(record_date) FROM behavioral_patterns)
			ORDER BY pattern_type
		`
		if err := r.db.SelectContext(ctx, &patterns, fallbackQuery); err != nil {
			return nil, repositories.Fallback{}, fmt.Errorf("failed to load pattern snapshot: %w", err)
		}
		if len(patterns) > 0 {
			anchor, err := latestDate(ctx, r.db, "behavioral_patterns")
			if err != nil {
				return nil, repositories.Fallback{}, err
			}
			fallback = repositories.Fallback{Used: true, Anchor: anchor}
		}
	}

	// The dashboard renders whole numbers.
	for i := range patterns {
		patterns[i].Value = math.Round(patterns[i].Value)
	}

	return patterns, fallback, nil
}

// GetConcerns aggregates concern topics over the window, top 10 by total
// query volume. No fallback: an empty window is an empty list.
func (r *CustomerRepository) GetConcerns(ctx context.Context, rng reporting.Range) ([]models.CustomerConcern, error) {
	query := `
		SELECT
			concern_name,
			concern_category,
			SUM(query_count) as query_count,
			AVG(ai_success_rate) as ai_success_rate
		FROM customer_concerns
		WHERE record_date BETWEEN ? AND ?
		GROUP BY concern_name, concern_category
		ORDER BY query_count DESC
		LIMIT 10
	`

	var concerns []models.CustomerConcern
	if err := r.db.SelectContext(ctx, &concerns, query, rng.Start, rng.End); err != nil {
		return nil, fmt.Errorf("failed to aggregate customer concerns: %w", err)
	}
	return concerns, nil
}

// GetLifetimeValue averages current and predicted CLV per customer-age
// bucket. Fallback takes the newest row per bucket across all history.
func (r *CustomerRepository) GetLifetimeValue(ctx context.Context, rng reporting.Range) ([]models.LifetimeValue, repositories.Fallback, error) {
	query := fmt.Sprintf(`
		SELECT
			segment_name,
			AVG(current_clv) as current_clv,
			AVG(predicted_clv) as predicted_clv
		FROM customer_lifetime_value
		WHERE record_date BETWEEN ? AND ?
		GROUP BY segment_name
		ORDER BY %s
	`, fmt.Sprintf(clvSegmentOrder, "segment_name"))

	var values []models.LifetimeValue
	if err := r.db.SelectContext(ctx, &values, query, rng.Start, rng.End); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to aggregate lifetime value: %w", err)
	}
	if len(values) > 0 {
		return values, repositories.Fallback{}, nil
	}

	fallbackQuery := fmt.Sprintf(`
		SELECT
			clv1.segment_name,
			clv1.current_clv,
			clv1.predicted_clv
		FROM customer_lifetime_value clv1
		INNER JOIN (
			SELECT segment_name, MAX(record_date) as max_date
			FROM customer_lifetime_value
			GROUP BY segment_name
		) clv2 ON clv1.segment_name = clv2.segment_name
		      AND clv1.record_date = clv2.max_date
		ORDER BY %s
	`, fmt.Sprintf(clvSegmentOrder, "clv1.segment_name"))

	if err := r.db.SelectContext(ctx, &values, fallbackQuery); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to load lifetime-value snapshot: %w", err)
	}
	if len(values) == 0 {
		return nil, repositories.Fallback{}, nil
	}

	anchor, err := latestDate(ctx, r.db, "customer_lifetime_value")
	if err != nil {
		return nil, repositories.Fallback{}, err
	}
	return values, repositories.Fallback{Used: true, Anchor: anchor}, nil
}

// GetProductGaps sums demand and potential revenue per product over the
// window, top 10 by demand. Rank is assigned after the sort.
func (r *CustomerRepository) GetProductGaps(ctx context.Context, rng reporting.Range) ([]models.ProductGap, error) {
	query := `
		SELECT
			product_name,
			category,
			SUM(CAST(demand_score AS INTEGER)) as demand_score,
			SUM(CAST(potential_revenue AS REAL)) as potential_revenue
		FROM product_gaps
		WHERE record_date BETWEEN ? AND ?
		GROUP BY product_name, category
		ORDER BY demand_score DESC
		LIMIT 10
	`

	var gaps []models.ProductGap
	if err := r.db.SelectContext(ctx, &gaps, query, rng.Start, rng.End); err != nil {
		return nil, fmt.Errorf("failed to aggregate product gaps: %w", err)
	}
	for i := range gaps {
		gaps[i].GapRank = i + 1
	}
	return gaps, nil
}

// GetInteractions returns the most recent logged interactions inside the
// window, falling back to the most recent overall.
func (r *CustomerRepository) GetInteractions(ctx context.Context, rng reporting.Range, limit int) ([]models.CustomerInteraction, repositories.Fallback, error) {
	query := `
		SELECT id, interaction_date, customer_id, interaction_type, channel, outcome, duration_seconds
		FROM customer_interactions
		WHERE interaction_date BETWEEN ? AND ?
		ORDER BY interaction_date DESC
		LIMIT ?
	`

	var interactions []models.CustomerInteraction
	if err := r.db.SelectContext(ctx, &interactions, query, rng.Start, rng.End, limit); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to get customer interactions: %w", err)
	}
	if len(interactions) > 0 {
		return interactions, repositories.Fallback{}, nil
	}

	fallbackQuery := `
		SELECT id, interaction_date, customer_id, interaction_type, channel, outcome, duration_seconds
		FROM customer_interactions
		ORDER BY interaction_date DESC
		LIMIT ?
	`
	if err := r.db.SelectContext(ctx, &interactions, fallbackQuery, limit); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to load recent interactions: %w", err)
	}
	if len(interactions) == 0 {
		return nil, repositories.Fallback{}, nil
	}
	return interactions, repositories.Fallback{Used: true, Anchor: interactions[0].InteractionDate}, nil
}

// GetSatisfaction returns the raw satisfaction series for the window in
// chronological order. No fallback: a gap in the data shows as a gap.
func (r *CustomerRepository) GetSatisfaction(ctx context.Context, rng reporting.Range) ([]models.SatisfactionPoint, error) {
	query := `
		SELECT record_date, overall_satisfaction, product_match_quality, ai_helpfulness
		FROM customer_satisfaction
		WHERE record_date BETWEEN ? AND ?
		ORDER BY record_date ASC
	`

	var points []models.SatisfactionPoint
	if err := r.db.SelectContext(ctx, &points, query, rng.Start, rng.End); err != nil {
		return nil, fmt.Errorf("failed to get satisfaction series: %w", err)
	}
	return points, nil
}
