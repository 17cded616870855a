package database

import (
	"context"
	"io"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func registryTestDB(t *testing.T, tables ...string) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, table := range tables {
		_, err := db.Exec("CREATE TABLE " + table + " (id INTEGER PRIMARY KEY)")
		require.NoError(t, err)
	}
	return db
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestBuildRegistry_PrefersFirstCandidate(t *testing.T) {
	db := registryTestDB(t, "billing_payments", "payments", "usage_alerts")

	reg, err := BuildRegistry(context.Background(), db, quietLogger())
	require.NoError(t, err)

	table, ok := reg.Resolve(ResourcePayments)
	assert.True(t, ok)
	assert.Equal(t, "billing_payments", table)

	table, ok = reg.Resolve(ResourceAlerts)
	assert.True(t, ok)
	assert.Equal(t, "usage_alerts", table)
}

func TestBuildRegistry_LegacyTableNames(t *testing.T) {
	db := registryTestDB(t, "payment_history", "billing_alerts")

	reg, err := BuildRegistry(context.Background(), db, quietLogger())
	require.NoError(t, err)

	table, _ := reg.Resolve(ResourcePayments)
	assert.Equal(t, "payment_history", table)
	table, _ = reg.Resolve(ResourceAlerts)
	assert.Equal(t, "billing_alerts", table)
}

func TestBuildRegistry_MissingResource(t *testing.T) {
	db := registryTestDB(t, "overview_kpis")

	reg, err := BuildRegistry(context.Background(), db, quietLogger())
	require.NoError(t, err)

	_, ok := reg.Resolve(ResourcePayments)
	assert.False(t, ok)
}
