package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Logical resources whose backing table varies between deployments. Older
// seeds used payment_history/payments and billing_alerts; the registry
// resolves the name once at startup instead of probing per request.
const (
	ResourcePayments = "payments"
	ResourceAlerts   = "alerts"
)

var resourceCandidates = map[string][]string{
	ResourcePayments: {"billing_payments", "payment_history", "payments"},
	ResourceAlerts:   {"usage_alerts", "billing_alerts"},
}

// TableRegistry maps logical resource names to the concrete tables present
// in the attached store. Built once at startup from sqlite_master; queries
// then reference resolved names only, never candidate lists.
type TableRegistry struct {
	tables map[string]string
}

// BuildRegistry introspects sqlite_master and resolves every logical
// resource to the first existing candidate table. A resource with no
// backing table is simply absent; callers treat that as an empty dataset.
func BuildRegistry(ctx context.Context, db *sqlx.DB, log *logrus.Logger) (*TableRegistry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect schema: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schema rows: %w", err)
	}

	reg := &TableRegistry{tables: make(map[string]string)}
	for resource, candidates := range resourceCandidates {
		for _, candidate := range candidates {
			if existing[candidate] {
				reg.tables[resource] = candidate
				break
			}
		}
		if table, ok := reg.tables[resource]; ok {
			log.WithFields(logrus.Fields{
				"resource": resource,
				"table":    table,
			}).Debug("Resolved registry table")
		} else {
			log.WithField("resource", resource).Warn("No backing table for resource")
		}
	}

	return reg, nil
}

// Resolve returns the concrete table for a logical resource, and whether
// one exists in this deployment.
func (tr *TableRegistry) Resolve(resource string) (string, bool) {
	table, ok := tr.tables[resource]
	return table, ok
}
