package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": db,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mod := time.Date(2024, 3, 1, 12, 30, 0, 123456789, time.UTC)

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Lookup(ctx, "/in/a.ohh")
			require.NoError(t, err)
			assert.False(t, ok)

			rec := Record{
				Input:       "/in/a.ohh",
				Stamp:       Stamp{ModTime: mod, Size: 42},
				Output:      "/out/a.pokerstars.txt",
				Hands:       3,
				Skipped:     1,
				RunID:       "run-1",
				ConvertedAt: mod.Add(time.Minute),
			}
			require.NoError(t, store.Save(ctx, rec))

			got, ok, err := store.Lookup(ctx, "/in/a.ohh")
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, got.Stamp.Equal(rec.Stamp))
			assert.Equal(t, rec.Output, got.Output)
			assert.Equal(t, 3, got.Hands)
			assert.Equal(t, 1, got.Skipped)
			assert.Equal(t, "run-1", got.RunID)
			assert.True(t, got.ConvertedAt.Equal(rec.ConvertedAt))

			rec.Stamp.Size = 50
			rec.Error = "no valid hands found in file"
			require.NoError(t, store.Save(ctx, rec))

			got, _, err = store.Lookup(ctx, "/in/a.ohh")
			require.NoError(t, err)
			assert.Equal(t, int64(50), got.Stamp.Size)
			assert.Equal(t, "no valid hands found in file", got.Error)
		})
	}
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, Record{Input: "a", Stamp: Stamp{ModTime: time.Unix(100, 0), Size: 1}}))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	rec, ok, err := db.Lookup(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rec.Stamp.Equal(Stamp{ModTime: time.Unix(100, 0), Size: 1}))
}

func TestOpenSQLiteRejectsEmptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "  ")
	assert.Error(t, err)
}
