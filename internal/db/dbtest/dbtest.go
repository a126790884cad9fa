// Package dbtest provides throwaway migrated databases for tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sampleapp/internal/db"
)

// New returns a migrated in-memory SQLite database that lives for the
// duration of t.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gormDB, err := db.NewSQLite(":memory:")
	require.NoError(t, err)

	// Every connection to ":memory:" is a separate database, so pin the pool
	// to a single connection.
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gormDB
}
