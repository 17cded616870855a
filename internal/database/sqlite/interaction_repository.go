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

// InteractionRepository implements repositories.InteractionRepository
type InteractionRepository struct {
	db *sqlx.DB
}

// NewInteractionRepository creates a new InteractionRepository
func NewInteractionRepository(db *sqlx.DB) repositories.InteractionRepository {
	return &InteractionRepository{db: db}
}

// GetSummary aggregates the interaction totals for the window and builds
// the bucketed timeline in one call; the handler returns both together.
// When the window is empty the timeline falls back to the trailing buckets
// and the summary is recomputed from that fallback timeline, so the KPI
// tiles and the chart never disagree. Returns (nil, nil) when the table
// holds no rows at all.
func (r *InteractionRepository) GetSummary(ctx context.Context, rng reporting.Range, bucket reporting.Bucket) (*models.InteractionSummary, []models.InteractionTimelinePoint, repositories.Fallback, error) {
	summary, err := r.windowSummary(ctx, rng)
	if err != nil {
		return nil, nil, repositories.Fallback{}, err
	}

	timeline, err := r.windowTimeline(ctx, rng, bucket)
	if err != nil {
		return nil, nil, repositories.Fallback{}, err
	}

	fallback := repositories.Fallback{}
	if len(timeline) == 0 {
		timeline, err = r.trailingTimeline(ctx, rng.Period, bucket)
		if err != nil {
			return nil, nil, repositories.Fallback{}, err
		}
		if len(timeline) > 0 {
			fallback = repositories.Fallback{Used: true, Anchor: timeline[len(timeline)-1].Date}
		}
	}

	if summary == nil && len(timeline) > 0 {
		summary = summarizeTimeline(timeline)
		fallback.Used = true
	}

	if summary == nil {
		// Last resort: the newest summary row, with no timeline.
		summary, err = r.latestSummaryRow(ctx)
		if err != nil {
			return nil, nil, repositories.Fallback{}, err
		}
		if summary == nil {
			return nil, nil, repositories.Fallback{}, nil
		}
		anchor, err := latestDate(ctx, r.db, "interaction_summary")
		if err != nil {
			return nil, nil, repositories.Fallback{}, err
		}
		return summary, []models.InteractionTimelinePoint{}, repositories.Fallback{Used: true, Anchor: anchor}, nil
	}

	return summary, timeline, fallback, nil
}

func (r *InteractionRepository) windowSummary(ctx context.Context, rng reporting.Range) (*models.InteractionSummary, error) {
	query := `
		SELECT
			SUM(total_interactions) as total_interactions,
			SUM(chat_interactions) as chat_interactions,
			SUM(questionnaire_interactions) as questionnaire_interactions,
			SUM(image_analysis_interactions) as image_analysis_interactions,
			SUM(routine_planner_interactions) as routine_planner_interactions,
			AVG(avg_response_time) as avg_response_time
		FROM interaction_summary
		WHERE record_date BETWEEN ? AND ?
	`

	var row struct {
		Total         sql.NullInt64   `db:"total_interactions"`
		Chat          sql.NullInt64   `db:"chat_interactions"`
		Questionnaire sql.NullInt64   `db:"questionnaire_interactions"`
		Image         sql.NullInt64   `db:"image_analysis_interactions"`
		Routine       sql.NullInt64   `db:"routine_planner_interactions"`
		AvgResponse   sql.NullFloat64 `db:"avg_response_time"`
	}
	if err := r.db.GetContext(ctx, &row, query, rng.Start, rng.End); err != nil {
		return nil, fmt.Errorf("failed to aggregate interaction summary: %w", err)
	}
	if !row.Total.Valid {
		return nil, nil
	}

	return &models.InteractionSummary{
		TotalInteractions:          int(row.Total.Int64),
		ChatInteractions:           int(row.Chat.Int64),
		QuestionnaireInteractions:  int(row.Questionnaire.Int64),
		ImageAnalysisInteractions:  int(row.Image.Int64),
		RoutinePlannerInteractions: int(row.Routine.Int64),
		AvgResponseTime:            row.AvgResponse.Float64,
	}, nil
}

func (r *InteractionRepository) windowTimeline(ctx context.Context, rng reporting.Range, bucket reporting.Bucket) ([]models.InteractionTimelinePoint, error) {
	bucketExpr := bucket.SQLExpr("record_date")
	query := fmt.Sprintf(`
		SELECT
			%s as date,
			SUM(questionnaire_interactions) as questionnaire,
			SUM(chat_interactions) as chat,
			SUM(image_analysis_interactions) as image,
			SUM(routine_planner_interactions) as routine
		FROM interaction_summary
		WHERE record_date BETWEEN ? AND ?
		GROUP BY %s
		ORDER BY date ASC
	`, bucketExpr, bucketExpr)

	var timeline []models.InteractionTimelinePoint
	if err := r.db.SelectContext(ctx, &timeline, query, rng.Start, rng.End); err != nil {
		return nil, fmt.Errorf("failed to build interaction timeline: %w", err)
	}
	return timeline, nil
}

// trailingTimeline builds the fallback timeline: the most recent N buckets
// across all history, where N is what the primary window would have held.
func (r *InteractionRepository) trailingTimeline(ctx context.Context, period string, bucket reporting.Bucket) ([]models.InteractionTimelinePoint, error) {
	n := reporting.FallbackPoints(period)

	var query string
	if bucket == reporting.Daily {
		query = `
			SELECT
				record_date as date,
				questionnaire_interactions as questionnaire,
				chat_interactions as chat,
				image_analysis_interactions as image,
				routine_planner_interactions as routine
			FROM interaction_summary
			ORDER BY record_date DESC
			LIMIT ?
		`
	} else {
		bucketExpr := bucket.SQLExpr("record_date")
		query = fmt.Sprintf(`
			SELECT date,
			       SUM(questionnaire) as questionnaire,
			       SUM(chat) as chat,
			       SUM(image) as image,
			       SUM(routine) as routine
			FROM (
				SELECT %s as date,
				       questionnaire_interactions as questionnaire,
				       chat_interactions as chat,
				       image_analysis_interactions as image,
				       routine_planner_interactions as routine
				FROM interaction_summary
			)
			GROUP BY date
			ORDER BY date DESC
			LIMIT ?
		`, bucketExpr)
	}

	var timeline []models.InteractionTimelinePoint
	if err := r.db.SelectContext(ctx, &timeline, query, n); err != nil {
		return nil, fmt.Errorf("failed to build trailing interaction timeline: %w", err)
	}

	for i, j := 0, len(timeline)-1; i < j; i, j = i+1, j-1 {
		timeline[i], timeline[j] = timeline[j], timeline[i]
	}
	return timeline, nil
}

func (r *InteractionRepository) latestSummaryRow(ctx context.Context) (*models.InteractionSummary, error) {
	query := `
		SELECT total_interactions, chat_interactions, questionnaire_interactions,
		       image_analysis_interactions, routine_planner_interactions, avg_response_time
		FROM interaction_summary
		ORDER BY record_date DESC
		LIMIT 1
	`

	var summary models.InteractionSummary
	err := r.db.GetContext(ctx, &summary, query)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest interaction summary: %w", err)
	}
	return &summary, nil
}

// summarizeTimeline recomputes the KPI block from a fallback timeline. The
// response time is unknown for substituted windows and reports as zero.
func summarizeTimeline(timeline []models.InteractionTimelinePoint) *models.InteractionSummary {
	var s models.InteractionSummary
	for _, p := range timeline {
		s.QuestionnaireInteractions += p.QuestionnaireInteractions
		s.ChatInteractions += p.ChatInteractions
		s.ImageAnalysisInteractions += p.ImageAnalysisInteractions
		s.RoutinePlannerInteractions += p.RoutinePlannerInteractions
	}
	s.TotalInteractions = s.QuestionnaireInteractions + s.ChatInteractions +
		s.ImageAnalysisInteractions + s.RoutinePlannerInteractions
	return &s
}
