// Package dbtest provides a migrated, throw-away SQLite store for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/qrmenu/config"
	"github.com/ray-remotestate/qrmenu/database"
)

// New creates a fresh database file under t.TempDir, applies the migrations and
// closes the pool when the test ends.
func New(t testing.TB) *database.DB {
	t.Helper()

	cfg := config.Database{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "menu.db"),
	}

	db, err := database.ConnectAndMigrate(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Shutdown()
	})
	return db
}
