package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRawDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := openDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	require.NoError(t, err)
	return true
}

func indexExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRowContext(context.Background(),
		"SELECT name FROM sqlite_master WHERE type='index' AND name=?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestApplyMigrations(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db))

	for _, table := range []string{"schema_version", "customers", "products", "orders", "order_items"} {
		assert.True(t, tableExists(t, db, table), "table %s should exist", table)
	}
	assert.True(t, indexExists(t, db, "idx_orders_customer"))

	version, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db))
	require.NoError(t, ApplyMigrations(ctx, db))

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, len(AllMigrations), count)
}

func TestSchemaVersion_FreshDatabase(t *testing.T) {
	db := openRawDB(t)

	version, err := SchemaVersion(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", version)
}

func TestRollbackMigration(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()
	require.NoError(t, ApplyMigrations(ctx, db))

	// 1.1.0 -> 1.0.0 drops the secondary indexes only
	require.NoError(t, RollbackMigration(ctx, db))
	assert.False(t, indexExists(t, db, "idx_orders_customer"))
	assert.True(t, tableExists(t, db, "orders"))
	version, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version)

	// re-applying brings them back
	require.NoError(t, ApplyMigrations(ctx, db))
	assert.True(t, indexExists(t, db, "idx_orders_customer"))

	// roll back everything
	require.NoError(t, RollbackMigration(ctx, db))
	require.NoError(t, RollbackMigration(ctx, db))
	assert.False(t, tableExists(t, db, "orders"))
	assert.False(t, tableExists(t, db, "schema_version"))

	err = RollbackMigration(ctx, db)
	assert.Error(t, err, "nothing left to roll back")
}

func TestAllMigrations_Ordered(t *testing.T) {
	require.NotEmpty(t, AllMigrations)
	assert.Equal(t, CurrentSchemaVersion, AllMigrations[len(AllMigrations)-1].Version)
}
