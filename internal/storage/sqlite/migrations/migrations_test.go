package migrations_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/slok/appstore/internal/storage/sqlite/migrations"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestMigratorUpDown(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	m, err := migrations.NewMigrator(migrations.MigratorConfig{DB: db})
	require.NoError(t, err)

	v, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(0), v)

	require.NoError(t, m.Up(ctx))
	assert.True(t, tableExists(t, db, "items"))
	assert.True(t, tableExists(t, db, "operations"))
	assert.True(t, tableExists(t, db, "appstore_schema_migrations"))

	v, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)

	// Migrating again is a no-op.
	require.NoError(t, m.Up(ctx))

	require.NoError(t, m.Down(ctx))
	assert.False(t, tableExists(t, db, "items"))
	assert.False(t, tableExists(t, db, "operations"))
}

func TestNewMigratorInvalidConfig(t *testing.T) {
	_, err := migrations.NewMigrator(migrations.MigratorConfig{})
	assert.Error(t, err)
}
