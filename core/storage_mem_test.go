package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStateStoreSaveLoad(t *testing.T) {
	ctx := NewContext("test")
	store, err := NewMemStateStore(ctx)
	require.NoError(t, err)

	_, found, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "alice", []byte("blob-1")))
	got, found, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("blob-1"), got)
}

func TestMemStateStoreDeleteAndStats(t *testing.T) {
	ctx := NewContext("test")
	store, err := NewMemStateStore(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "a", []byte("1")))
	require.NoError(t, store.Save(ctx, "b", []byte("2")))

	stats, err := store.GetStats(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NumRecords)
	assert.NotEmpty(t, stats.DateOfLastRecord)

	stats, err = store.GetStats(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.NumRecords)

	require.NoError(t, store.Delete(ctx, "a"))
	stats, err = store.GetStats(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.NumRecords)

	stats, err = store.GetStats(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NumRecords)
}

func TestMemStateStoreLoadReturnsACopy(t *testing.T) {
	ctx := NewContext("test")
	store, err := NewMemStateStore(ctx)
	require.NoError(t, err)

	original := []byte("abc")
	require.NoError(t, store.Save(ctx, "s", original))

	got, _, err := store.Load(ctx, "s")
	require.NoError(t, err)
	got[0] = 'z'

	got2, _, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, byte('a'), got2[0])
}
