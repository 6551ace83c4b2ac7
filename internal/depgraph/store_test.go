package depgraph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crofthq/croft/internal/kv"
)

func newGraphStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	backing, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewStore(backing), backing
}

func TestStore_LoadAbsentDocument(t *testing.T) {
	store, _ := newGraphStore(t)

	g, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, g)
	assert.Empty(t, g)
}

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	store, _ := newGraphStore(t)
	ctx := context.Background()

	g := Graph{}
	g.SetNode("lib/db", NewNode(nil, []string{"Client"}))
	g.SetNode("api/users", NewNode([]string{"lib/db"}, []string{"Handler"}))
	require.NoError(t, store.Save(ctx, g))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, []string{"lib/db"}, loaded["api/users"].Imports)
	assert.Equal(t, []string{"api/users"}, loaded["lib/db"].Dependents)
}

func TestStore_LoadCorruptDocument(t *testing.T) {
	store, backing := newGraphStore(t)
	ctx := context.Background()

	require.NoError(t, backing.Set(ctx, GraphKey, []byte("{broken")))

	_, err := store.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupted")
}

func TestStore_UpdateIsSingleUnit(t *testing.T) {
	store, _ := newGraphStore(t)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(g Graph) error {
		g.SetNode("a", NewNode(nil, nil))
		return nil
	}))
	require.NoError(t, store.Update(ctx, func(g Graph) error {
		g.SetNode("b", NewNode([]string{"a"}, nil))
		return nil
	}))

	g, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, g, 2)
	assert.Equal(t, []string{"b"}, g["a"].Dependents)
}

func TestStore_UpdateAbortLeavesDocumentUntouched(t *testing.T) {
	store, _ := newGraphStore(t)
	ctx := context.Background()
	boom := errors.New("rejected")

	require.NoError(t, store.Update(ctx, func(g Graph) error {
		g.SetNode("a", NewNode(nil, nil))
		return nil
	}))
	err := store.Update(ctx, func(g Graph) error {
		g.SetNode("b", NewNode(nil, nil))
		return boom
	})
	require.ErrorIs(t, err, boom)

	g, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, g, 1)
}
