package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/internal/database/repositories"
)

// ProductRepository implements repositories.ProductRepository
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *sqlx.DB) repositories.ProductRepository {
	return &ProductRepository{db: db}
}

// GetAnalytics returns the top products by revenue.
func (r *ProductRepository) GetAnalytics(ctx context.Context, limit int) ([]models.ProductAnalytics, error) {
	query := `
		SELECT id, record_date, product_id, product_name, category, views,
		       ai_recommendations, purchases, revenue, conversion_rate
		FROM product_analytics
		ORDER BY revenue DESC
		LIMIT ?
	`

	var products []models.ProductAnalytics
	if err := r.db.SelectContext(ctx, &products, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get product analytics: %w", err)
	}
	return products, nil
}

// GetTopRecommended ranks products by AI recommendation volume within the
// window: recommendations and revenue sum, conversion rate averages.
func (r *ProductRepository) GetTopRecommended(ctx context.Context, rng reporting.Range, limit int) ([]models.RecommendedProduct, error) {
	query := `
		SELECT
			product_name,
			SUM(ai_recommendations) as recommendations,
			AVG(conversion_rate) as conversion_rate,
			SUM(revenue) as revenue
		FROM product_analytics
		WHERE record_date BETWEEN ? AND ?
		GROUP BY product_name
		ORDER BY recommendations DESC
		LIMIT ?
	`

	var products []models.RecommendedProduct
	if err := r.db.SelectContext(ctx, &products, query, rng.Start, rng.End, limit); err != nil {
		return nil, fmt.Errorf("failed to aggregate recommended products: %w", err)
	}
	return products, nil
}

// GetCategoryPerformance returns all category rows unfiltered.
func (r *ProductRepository) GetCategoryPerformance(ctx context.Context) ([]models.CategoryPerformance, error) {
	query := `
		SELECT id, record_date, category_name, total_products, total_views,
		       total_revenue, avg_conversion_rate, ai_recommendation_rate
		FROM category_performance
	`

	var categories []models.CategoryPerformance
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to get category performance: %w", err)
	}
	return categories, nil
}

// GetCategoryAggregates feeds the cross-sell/upsell estimate: views sum and
// the two rates average per category, top categories by view volume. Falls
// back to the latest snapshot when the window is empty.
func (r *ProductRepository) GetCategoryAggregates(ctx context.Context, rng reporting.Range, limit int) ([]models.CategoryPerformance, repositories.Fallback, error) {
	query := `
		SELECT
			category_name,
			SUM(total_views) as total_views,
			AVG(ai_recommendation_rate) as ai_recommendation_rate,
			AVG(avg_conversion_rate) as avg_conversion_rate
		FROM category_performance
		WHERE record_date BETWEEN ? AND ?
		GROUP BY category_name
		ORDER BY total_views DESC
		LIMIT ?
	`

	var categories []models.CategoryPerformance
	if err := r.db.SelectContext(ctx, &categories, query, rng.Start, rng.End, limit); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	if len(categories) > 0 {
		return categories, repositories.Fallback{}, nil
	}

	fallbackQuery := `
		SELECT
			category_name,
			total_views,
			ai_recommendation_rate,
			avg_conversion_rate
		FROM category_performance
		WHERE record_date = (SELECT MAX(record_date) FROM category_performance)
		ORDER BY total_views DESC
		LIMIT ?
	`
	if err := r.db.SelectContext(ctx, &categories, fallbackQuery, limit); err != nil {
		return nil, repositories.Fallback{}, fmt.Errorf("failed to load category snapshot: %w", err)
	}
	if len(categories) == 0 {
		return nil, repositories.Fallback{}, nil
	}

	anchor, err := latestDate(ctx, r.db, "category_performance")
	if err != nil {
		return nil, repositories.Fallback{}, err
	}
	return categories, repositories.Fallback{Used: true, Anchor: anchor}, nil
}
