package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories builds each backend against a temp location so the same
// behavioral suite runs over both.
var storeFactories = map[string]func(t *testing.T) Store{
	"file": func(t *testing.T) Store {
		store, err := NewFileStore(t.TempDir())
		require.NoError(t, err)
		return store
	},
	"sqlite": func(t *testing.T) Store {
		store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		return store
	},
}

func TestStore_GetMissingKey(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			_, err := store.Get(context.Background(), "absent")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrKeyNotFound)
		})
	}
}

func TestStore_SetThenGet(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()

			require.NoError(t, store.Set(ctx, "depgraph", []byte(`{"a":1}`)))

			got, err := store.Get(ctx, "depgraph")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":1}`, string(got))
		})
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()

			require.NoError(t, store.Set(ctx, "k", []byte("one")))
			require.NoError(t, store.Set(ctx, "k", []byte("two")))

			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "two", string(got))
		})
	}
}

func TestStore_UpdateMissingKeySeesNil(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()

			err := store.Update(ctx, "fresh", func(current []byte) ([]byte, error) {
				assert.Nil(t, current)
				return []byte("init"), nil
			})
			require.NoError(t, err)

			got, err := store.Get(ctx, "fresh")
			require.NoError(t, err)
			assert.Equal(t, "init", string(got))
		})
	}
}

func TestStore_UpdateReadsCurrentValue(t *testing.T) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()

			require.NoError(t, store.Set(ctx, "k", []byte("v1")))
			err := store.Update(ctx, "k", func(current []byte) ([]byte, error) {
				assert.Equal(t, "v1", string(current))
				return append(current, []byte("+v2")...), nil
			})
			require.NoError(t, err)

			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v1+v2", string(got))
		})
	}
}

func TestStore_UpdateAbortsWithoutWriting(t *testing.T) {
	boom := errors.New("boom")
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			ctx := context.Background()

			require.NoError(t, store.Set(ctx, "k", []byte("stable")))
			err := store.Update(ctx, "k", func([]byte) ([]byte, error) {
				return nil, boom
			})
			require.ErrorIs(t, err, boom)

			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "stable", string(got))
		})
	}
}

func TestFileStore_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "depgraph", []byte("{}")))
	require.NoError(t, store.Update(ctx, "depgraph", func(b []byte) ([]byte, error) {
		return b, nil
	}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "depgraph.json", entries[0].Name())
}

func TestFileStore_NamespacedKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "component:auth/login", []byte("a")))
	require.NoError(t, store.Set(ctx, "review:auth/login", []byte("b")))

	a, err := store.Get(ctx, "component:auth/login")
	require.NoError(t, err)
	b, err := store.Get(ctx, "review:auth/login")
	require.NoError(t, err)
	assert.Equal(t, "a", string(a))
	assert.Equal(t, "b", string(b))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}
