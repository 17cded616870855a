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

// OverviewRepository implements repositories.OverviewRepository
type OverviewRepository struct {
	db *sqlx.DB
}

// NewOverviewRepository creates a new OverviewRepository
func NewOverviewRepository(db *sqlx.DB) repositories.OverviewRepository {
	return &OverviewRepository{db: db}
}

// GetKPIs aggregates the KPI tiles over the window. total_customers is a
// latest-value metric so it takes MAX; the change and rate columns average;
// the volume columns sum. Returns nil when the window holds no rows.
func (r *OverviewRepository) GetKPIs(ctx context.Context, rng reporting.Range) (*models.OverviewKPIs, error) {
	query := `
		SELECT
			MAX(total_customers) as total_customers,
			AVG(total_customers_change) as total_customers_change,
			AVG(conversion_rate) as conversion_rate,
			AVG(conversion_rate_change) as conversion_rate_change,
			SUM(CAST(ai_interactions AS INTEGER)) as ai_interactions,
			AVG(ai_interactions_change) as ai_interactions_change,
			SUM(CAST(revenue_impact AS REAL)) as revenue_impact,
			AVG(revenue_impact_change) as revenue_impact_change
		FROM overview_kpis
		WHERE record_date BETWEEN ? AND ?
	`

	var row struct {
		TotalCustomers       sql.NullInt64   `db:"total_customers"`
		TotalCustomersChange sql.NullFloat64 `db:"total_customers_change"`
		ConversionRate       sql.NullFloat64 `db:"conversion_rate"`
		ConversionRateChange sql.NullFloat64 `db:"conversion_rate_change"`
		AIInteractions       sql.NullInt64   `db:"ai_interactions"`
		AIInteractionsChange sql.NullFloat64 `db:"ai_interactions_change"`
		RevenueImpact        sql.NullFloat64 `db:"revenue_impact"`
		RevenueImpactChange  sql.NullFloat64 `db:"revenue_impact_change"`
	}
	if err := r.db.GetContext(ctx, &row, query, rng.Start, rng.End); err != nil {
		return nil, fmt.Errorf("failed to aggregate overview KPIs: %w", err)
	}

	// An empty window aggregates to a row of NULLs.
	if !row.TotalCustomers.Valid && !row.AIInteractions.Valid && !row.RevenueImpact.Valid {
		return nil, nil
	}

	return &models.OverviewKPIs{
		TotalCustomers:       int(row.TotalCustomers.Int64),
		TotalCustomersChange: row.TotalCustomersChange.Float64,
		ConversionRate:       row.ConversionRate.Float64,
		ConversionRateChange: row.ConversionRateChange.Float64,
		AIInteractions:       int(row.AIInteractions.Int64),
		AIInteractionsChange: row.AIInteractionsChange.Float64,
		RevenueImpact:        row.RevenueImpact.Float64,
		RevenueImpactChange:  row.RevenueImpactChange.Float64,
	}, nil
}

// GetFunnel aggregates funnel stages over the window: counts sum, the rate
// columns average. When the window is empty it falls back to the latest
// complete snapshot and reports the anchor date.
func (r *OverviewRepository) GetFunnel(ctx context.Context, rng reporting.Range) ([]models.FunnelStage, repositories.Fallback, error) {
	query := `
		SELECT
			stage_name,
			stage_order,
			CAST(SUM(CAST(count AS INTEGER)) AS INTEGER) as count,
			AVG(percentage) as percentage,
			AVG(dropoff_rate) as dropoff_rate
		FROM conversion_funnel
		WHERE record_date BETWEEN ? AND ?
		GROUP BY stage_name, stage_order
		ORDER BY stage_order
	`

	var stages []models.FunnelStage
	if err := r.db.SelectContext(ctx, &stages, query, rng.Start, rng.End); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to aggregate funnel: %w", err)
	}

	if len(stages) > 0 {
		// GROUP BY can still yield duplicate orders when a stage was
		// renamed mid-window; first seen wins.
		seen := make(map[int]bool)
		result := stages[:0]
		for _, s := range stages {
			if seen[s.StageOrder] {
				continue
			}
			seen[s.StageOrder] = true
			s.StageCount = s.Count
			result = append(result, s)
		}
		return result, repositories.Fallback{}, nil
	}

	fallbackQuery := `
		SELECT stage_name, stage_order, count, percentage, dropoff_rate
		FROM conversion_funnel
		WHERE record_date = (SELECT MAX(record_date) FROM conversion_funnel)
		ORDER BY stage_order
		LIMIT 5
	`
	if err := r.db.SelectContext(ctx, &stages, fallbackQuery); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to load funnel snapshot: %w", err)
	}
	if len(stages) == 0 {
		return nil, repositories.Fallback{}, nil
	}

	anchor, err := latestDate(ctx, r.db, "conversion_funnel")
	if err != nil {
		return nil, repositories.Fallback{}, err
	}
	for i := range stages {
		stages[i].StageCount = stages[i].Count
	}
	return stages, repositories.Fallback{Used: true, Anchor: anchor}, nil
}

// GetInteractionTypes aggregates the interaction mix over the window with a
// latest-snapshot fallback. Percentages stored as zero are recomputed from
// the counts so the donut always sums to ~100.
func (r *OverviewRepository) GetInteractionTypes(ctx context.Context, rng reporting.Range) ([]models.InteractionType, repositories.Fallback, error) {
	query := `
		SELECT
			interaction_name,
			CAST(SUM(CAST(count AS INTEGER)) AS INTEGER) as count,
			AVG(percentage) as percentage
		FROM interaction_types
		WHERE record_date BETWEEN ? AND ?
		GROUP BY interaction_name
		ORDER BY count DESC
	`

	var rows []models.InteractionType
	if err := r.db.SelectContext(ctx, &rows, query, rng.Start, rng.End); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to aggregate interaction types: %w", err)
	}

	fallback := repositories.Fallback{}
	if len(rows) == 0 {
		fallbackQuery := `
			SELECT interaction_name, count, percentage
			FROM interaction_types
			WHERE record_date = (SELECT MAX(record_date) FROM interaction_types)
			ORDER BY count DESC
		`
		if err := r.db.SelectContext(ctx, &rows, fallbackQuery); err != nil {
			return nil, repositories.Fallback{}, fmt.Errorf("failed to load interaction-type snapshot: %w", err)
		}
		if len(rows) > 0 {
			anchor, err := latestDate(ctx, r.db, "interaction_types")
			if err != nil {
				return nil, repositories.Fallback{}, err
			}
			fallback = repositories.Fallback{Used: true, Anchor: anchor}
		}
	}

	// Dedupe by name (first seen wins) and round stored percentages.
	seen := make(map[string]bool)
	result := make([]models.InteractionType, 0, len(rows))
	total := 0
	for _, row := range rows {
		if seen[row.InteractionName] {
			continue
		}
		seen[row.InteractionName] = true
		row.InteractionKind = row.InteractionName
		if row.Percentage > 0 {
			row.Percentage = math.Round(row.Percentage*10) / 10
		} else {
			row.Percentage = 0
		}
		total += row.Count
		result = append(result, row)
	}

	if total > 0 {
		for i := range result {
			if result[i].Percentage == 0 {
				result[i].Percentage = math.Round(float64(result[i].Count)/float64(total)*1000) / 10
			}
		}
	}

	return result, fallback, nil
}
