package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// latestDate returns MAX(record_date) for a reporting table, the anchor a
// latest-snapshot fallback is reported against. table is always a query
// template literal, never request input.
func latestDate(ctx context.Context, db *sqlx.DB, table string) (string, error) {
	var date sql.NullString
	query := fmt.Sprintf("SELECT MAX(record_date) FROM %s", table)
	if err := db.GetContext(ctx, &date, query); err != nil {
		return "", fmt.Errorf("failed to find latest %s date: %w", table, err)
	}
	return date.String, nil
}
