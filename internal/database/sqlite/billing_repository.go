package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/smartshopie/analytics-backend-go/internal/database/models"
	"github.com/smartshopie/analytics-backend-go/internal/database/repositories"
)

// BillingRepository implements repositories.BillingRepository. The payment
// and alert table names come from the startup registry; an empty name means
// this deployment has no such table and the lists come back empty.
type BillingRepository struct {
	db            *sqlx.DB
	paymentsTable string
	alertsTable   string
}

// NewBillingRepository creates a new BillingRepository
func NewBillingRepository(db *sqlx.DB, paymentsTable, alertsTable string) repositories.BillingRepository {
	return &BillingRepository{
		db:            db,
		paymentsTable: paymentsTable,
		alertsTable:   alertsTable,
	}
}

// GetSummary returns the current subscription breakdown. The table holds a
// single row; nil means billing was never seeded.
func (r *BillingRepository) GetSummary(ctx context.Context) (*models.BillingSummary, error) {
	query := `
		SELECT plan_name, monthly_price, renewal_date, subscription_amount,
		       chat_amount, image_amount, questionnaire_amount, overage_amount,
		       total_estimated
		FROM billing_summary
		LIMIT 1
	`

	var summary models.BillingSummary
	err := r.db.GetContext(ctx, &summary, query)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get billing summary: %w", err)
	}
	return &summary, nil
}

// GetUsageBreakdown returns monthly metered usage in month order.
func (r *BillingRepository) GetUsageBreakdown(ctx context.Context) ([]models.UsageBreakdown, error) {
	query := `
		SELECT month, usage_type, used, free_limit, overage_rate, overage_cost, total_usage
		FROM usage_breakdown
		ORDER BY month ASC
	`

	var usage []models.UsageBreakdown
	if err := r.db.SelectContext(ctx, &usage, query); err != nil {
		return nil, fmt.Errorf("failed to get usage breakdown: %w", err)
	}
	return usage, nil
}

// GetPayments returns the most recent payments from the resolved table.
func (r *BillingRepository) GetPayments(ctx context.Context, limit int) ([]models.Payment, error) {
	if r.paymentsTable == "" {
		return []models.Payment{}, nil
	}

	query := fmt.Sprintf(`
		SELECT payment_date, description, amount, status, invoice_url
		FROM %s
		ORDER BY payment_date DESC
		LIMIT ?
	`, r.paymentsTable)

	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get payment history: %w", err)
	}
	return payments, nil
}

// GetAlerts returns the most recent usage alerts from the resolved table.
func (r *BillingRepository) GetAlerts(ctx context.Context, limit int) ([]models.UsageAlert, error) {
	if r.alertsTable == "" {
		return []models.UsageAlert{}, nil
	}

	query := fmt.Sprintf(`
		SELECT level, title, message, created_at
		FROM %s
		ORDER BY created_at DESC
		LIMIT ?
	`, r.alertsTable)

	var alerts []models.UsageAlert
	if err := r.db.SelectContext(ctx, &alerts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get usage alerts: %w", err)
	}
	return alerts, nil
}
