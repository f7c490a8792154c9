package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	var count int
	err := store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'trigger' AND name = 'update_documents_updated_at'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMigrate_UpdatedAtTracksWrites(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	id, err := store.Create(ctx, testPath, map[string]any{"name": "a"})
	require.NoError(t, err)

	var updated *string
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT updated_at FROM documents WHERE id = ?`, id).Scan(&updated))
	assert.Nil(t, updated)

	require.NoError(t, store.Update(ctx, testPath, id, map[string]any{"name": "b"}))
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT updated_at FROM documents WHERE id = ?`, id).Scan(&updated))
	assert.NotNil(t, updated)
}

func TestNewSQLiteStore_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "lifeos.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Equal(t, dbPath, store.Path())
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}
