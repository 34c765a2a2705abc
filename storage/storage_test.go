package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetDelete(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	_, ok, err := store.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok, "Missing key should report not found")

	require.NoError(t, store.Set("theme", "dark"))

	value, ok, err := store.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete("theme"))
	_, ok, err = store.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())

	// Deleting a missing key is a no-op
	require.NoError(t, store.Delete("theme"))
}

func TestMemory_WatchReceivesChanges(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	ch, cancel := store.Watch("theme")
	defer cancel()

	require.NoError(t, store.Set("theme", "dark"))
	require.NoError(t, store.Set("other", "ignored"))
	require.NoError(t, store.Delete("theme"))

	change := <-ch
	assert.Equal(t, Change{Key: "theme", Value: "dark"}, change)

	change = <-ch
	assert.Equal(t, Change{Key: "theme", Deleted: true}, change, "Changes to other keys should not be delivered")
}

func TestMemory_WatchCancel(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	ch, cancel := store.Watch("theme")
	cancel()

	// The channel closes and later writes go nowhere
	_, open := <-ch
	assert.False(t, open)
	require.NoError(t, store.Set("theme", "dark"))

	// Cancelling twice is safe
	cancel()
}

func TestMemory_CloseClosesWatchers(t *testing.T) {
	store := NewMemory()

	ch, _ := store.Watch("theme")
	require.NoError(t, store.Close())

	_, open := <-ch
	assert.False(t, open, "Close should close watcher channels")
}

func TestJSONFile_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := NewJSONFile(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("session.user", "ada"))
	require.NoError(t, store.Set("session.theme", "dark"))
	require.NoError(t, store.Close())

	reopened, err := NewJSONFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get("session.user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ada", value)

	value, ok, err = reopened.Get("session.theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestJSONFile_NestedPathsAndDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := NewJSONFile(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("a.b.c", "deep"))

	value, ok, err := store.Get("a.b.c")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "deep", value)

	require.NoError(t, store.Delete("a.b.c"))
	_, ok, err = store.Get("a.b.c")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing path is a no-op
	require.NoError(t, store.Delete("a.b.c"))
}

func TestJSONFile_WatchReceivesChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := NewJSONFile(path)
	require.NoError(t, err)
	defer store.Close()

	ch, cancel := store.Watch("theme")
	defer cancel()

	require.NoError(t, store.Set("theme", "light"))

	change := <-ch
	assert.Equal(t, Change{Key: "theme", Value: "light"}, change)
}

func TestJSONFile_RejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o644))

	_, err := NewJSONFile(path)
	assert.Error(t, err)
}

func TestSyncedValue_LoadsInitialValue(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	require.NoError(t, store.Set("theme", "dark"))

	synced, err := NewSyncedValue(store, "theme")
	require.NoError(t, err)
	defer synced.Unbind()

	value, ok := synced.Get()
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
	assert.Equal(t, "theme", synced.Key())
}

func TestSyncedValue_FollowsStoreChanges(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	synced, err := NewSyncedValue(store, "theme")
	require.NoError(t, err)
	defer synced.Unbind()

	_, ok := synced.Get()
	assert.False(t, ok, "Unset key starts absent")

	// A write made directly against the store reaches the cache
	require.NoError(t, store.Set("theme", "light"))
	require.Eventually(t, func() bool {
		value, ok := synced.Get()
		return ok && value == "light"
	}, time.Second, time.Millisecond)

	require.NoError(t, store.Delete("theme"))
	require.Eventually(t, func() bool {
		_, ok := synced.Get()
		return !ok
	}, time.Second, time.Millisecond)
}

func TestSyncedValue_SetWritesThrough(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	synced, err := NewSyncedValue(store, "theme")
	require.NoError(t, err)
	defer synced.Unbind()

	require.NoError(t, synced.Set("dark"))

	// Visible locally right away
	value, ok := synced.Get()
	assert.True(t, ok)
	assert.Equal(t, "dark", value)

	// And in the store
	value, ok, err = store.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestSyncedValue_UnbindStopsFollowing(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	synced, err := NewSyncedValue(store, "theme")
	require.NoError(t, err)

	require.NoError(t, synced.Set("dark"))
	synced.Unbind()

	require.NoError(t, store.Set("theme", "light"))
	time.Sleep(50 * time.Millisecond)

	value, ok := synced.Get()
	assert.True(t, ok)
	assert.Equal(t, "dark", value, "After Unbind the cache keeps its last value")
}
