package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/internal/database/repositories"
)

const (
	// realtimePollLimit caps an incremental poll; at one sample a minute
	// that is two hours of catch-up per request.
	realtimePollLimit = 120
	// realtimeWindowSize is the initial backfill, one hour of samples.
	realtimeWindowSize = 60
)

// RealtimeRepository implements repositories.RealtimeRepository
type RealtimeRepository struct {
	db *sqlx.DB
}

// NewRealtimeRepository creates a new RealtimeRepository
func NewRealtimeRepository(db *sqlx.DB) repositories.RealtimeRepository {
	return &RealtimeRepository{db: db}
}

const realtimeColumns = `
	recorded_at, active_sessions, api_response_time_ms,
	cpu_usage_pct, memory_usage_pct, conversions_per_min
`

// GetSamplesSince returns samples strictly after the cursor in ascending
// order. The cursor is an opaque recorded_at value the client echoes back,
// so consecutive polls never re-deliver a sample.
func (r *RealtimeRepository) GetSamplesSince(ctx context.Context, since string) ([]models.RealtimeSample, error) {
	query := `
		SELECT ` + realtimeColumns + `
		FROM realtime_metrics
		WHERE recorded_at > ?
		ORDER BY recorded_at ASC
		LIMIT ?
	`

	var samples []models.RealtimeSample
	if err := r.db.SelectContext(ctx, &samples, query, since, realtimePollLimit); err != nil {
		return nil, fmt.Errorf("failed to get realtime samples since cursor: %w", err)
	}
	return samples, nil
}

// GetRecentSamples returns the latest hour of samples in chronological
// order for the initial chart render.
func (r *RealtimeRepository) GetRecentSamples(ctx context.Context) ([]models.RealtimeSample, error) {
	query := `
		SELECT ` + realtimeColumns + `
		FROM realtime_metrics
		ORDER BY recorded_at DESC
		LIMIT ?
	`

	var samples []models.RealtimeSample
	if err := r.db.SelectContext(ctx, &samples, query, realtimeWindowSize); err != nil {
		return nil, fmt.Errorf("failed to get recent realtime samples: %w", err)
	}

	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	return samples, nil
}

// GetAPIEndpoints returns the monitored endpoint health rows.
func (r *RealtimeRepository) GetAPIEndpoints(ctx context.Context) ([]models.APIEndpointHealth, error) {
	query := `
		SELECT id, endpoint_name, base_url, avg_response_ms, success_rate,
		       daily_calls, error_rate, last_checked
		FROM api_endpoints
	`

	var endpoints []models.APIEndpointHealth
	if err := r.db.SelectContext(ctx, &endpoints, query); err != nil {
		return nil, fmt.Errorf("failed to get API endpoint health: %w", err)
	}
	return endpoints, nil
}
