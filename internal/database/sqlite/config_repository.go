package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/internal/database/repositories"
)

// ConfigRepository implements repositories.ConfigRepository
type ConfigRepository struct {
	db *sqlx.DB
}

// NewConfigRepository creates a new ConfigRepository
func NewConfigRepository(db *sqlx.DB) repositories.ConfigRepository {
	return &ConfigRepository{db: db}
}

// GetAPIConfigurations returns the newest configuration row per API type.
func (r *ConfigRepository) GetAPIConfigurations(ctx context.Context) ([]models.APIConfiguration, error) {
	query := `
		SELECT id, api_type, api_name, api_url, api_key, status, last_sync, sync_frequency
		FROM api_configurations
		WHERE id IN (
			SELECT MAX(id)
			FROM api_configurations
			GROUP BY api_type
		)
		ORDER BY api_type
	`

	var configs []models.APIConfiguration
	if err := r.db.SelectContext(ctx, &configs, query); err != nil {
		return nil, fmt.Errorf("failed to get API configurations: %w", err)
	}
	return configs, nil
}
