package persistence

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souschef-ai/souschef/internal/notification"
	"github.com/souschef-ai/souschef/internal/recipes"
	"github.com/souschef-ai/souschef/internal/session"
)

func openTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	adapter, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return adapter
}

func TestLoadWithoutPriorSave(t *testing.T) {
	adapter := openTestAdapter(t)

	snap, err := adapter.Load()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, snap.SchemaVersion)
	assert.Empty(t, snap.Sessions)
	assert.Equal(t, string(recipes.ThemeSystem), snap.Theme)
}

func TestRoundTrip(t *testing.T) {
	adapter := openTestAdapter(t)

	store := session.NewStore()
	older := store.CreateSession("weeknight dinners")
	store.AddMessage(older, session.RoleUser, "quick pasta ideas?", nil)
	store.AddMessage(older, session.RoleAssistant, "Try aglio e olio.", []session.MetadataEntry{{
		Kind:        session.MetadataSuggestions,
		Suggestions: []string{"carbonara", "cacio e pepe"},
	}})
	newer := store.CreateSession("baking")
	store.AddMessage(newer, session.RoleUser, "sourdough starter help", nil)
	store.SwitchSession(older)

	state := recipes.NewState(notification.Nop)
	state.ToggleFavorite(recipes.Ref{ID: "r1", Title: "Aglio e Olio"})
	state.Rate("r1", 5)
	state.MarkViewed(recipes.Ref{ID: "r2", Title: "Carbonara"})
	state.MarkViewed(recipes.Ref{ID: "r1", Title: "Aglio e Olio"})
	state.SetTheme(recipes.ThemeDark)

	require.NoError(t, adapter.Save(Capture(store, state)))

	loaded, err := adapter.Load()
	require.NoError(t, err)

	restoredStore := session.NewStore()
	restoredState := recipes.NewState(notification.Nop)
	Apply(loaded, restoredStore, restoredState)

	// Session list: same ids, titles, ordering and message content/roles.
	original := store.Sessions()
	restored := restoredStore.Sessions()
	require.Len(t, restored, len(original))
	for i := range original {
		assert.Equal(t, original[i].ID, restored[i].ID)
		assert.Equal(t, original[i].Title, restored[i].Title)
		require.Len(t, restored[i].Messages, len(original[i].Messages))
		for j := range original[i].Messages {
			assert.Equal(t, original[i].Messages[j].ID, restored[i].Messages[j].ID)
			assert.Equal(t, original[i].Messages[j].Role, restored[i].Messages[j].Role)
			assert.Equal(t, original[i].Messages[j].Content, restored[i].Messages[j].Content)
			assert.WithinDuration(t, original[i].Messages[j].Timestamp, restored[i].Messages[j].Timestamp, time.Second)
		}
	}
	assert.Equal(t, older, restoredStore.CurrentID())

	assert.Equal(t, state.Favorites(), restoredState.Favorites())
	require.Len(t, restoredState.Ratings(), 1)
	assert.Equal(t, 5, restoredState.Ratings()[0].Score)
	require.Len(t, restoredState.RecentlyViewed(), 2)
	assert.Equal(t, "r1", restoredState.RecentlyViewed()[0].ID)
	assert.Equal(t, recipes.ThemeDark, restoredState.Theme())

	// Metadata survives the trip.
	require.Len(t, restored[1].Messages, 2)
	meta := restored[1].Messages[1].Metadata
	require.Len(t, meta, 1)
	assert.Equal(t, session.MetadataSuggestions, meta[0].Kind)
	assert.Equal(t, []string{"carbonara", "cacio e pepe"}, meta[0].Suggestions)
}

func TestSaveOverwritesPreviousBlob(t *testing.T) {
	adapter := openTestAdapter(t)

	store := session.NewStore()
	store.CreateSession("one")
	state := recipes.NewState(notification.Nop)
	require.NoError(t, adapter.Save(Capture(store, state)))

	store.CreateSession("two")
	require.NoError(t, adapter.Save(Capture(store, state)))

	loaded, err := adapter.Load()
	require.NoError(t, err)
	assert.Len(t, loaded.Sessions, 2)
}

func TestLoadSurvivesMalformedPersistedBlob(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	adapter, err := Open(dbPath)
	require.NoError(t, err)
	defer adapter.Close()

	// Corrupt the stored value directly.
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`REPLACE INTO app_state (key, value) VALUES (?, ?)`, stateKey, `{"sessions": "corrupted`)
	require.NoError(t, err)

	snap, err := adapter.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Sessions)
	assert.Equal(t, SchemaVersion, snap.SchemaVersion)
}

type countingSaver struct {
	mu    sync.Mutex
	saves int
}

func (c *countingSaver) Save(*Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves++
	return nil
}

func (c *countingSaver) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

func TestAutosaverCoalescesBursts(t *testing.T) {
	saver := &countingSaver{}
	auto := NewAutosaver(saver, emptySnapshot, 50*time.Millisecond)

	for i := 0; i < 10; i++ {
		auto.Changed()
	}
	assert.Equal(t, 0, saver.count())

	require.Eventually(t, func() bool { return saver.count() == 1 }, 5*time.Second, 10*time.Millisecond)

	// Stays at one write after the quiet period.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
}

func TestAutosaverFlushCancelsPendingTimer(t *testing.T) {
	saver := &countingSaver{}
	auto := NewAutosaver(saver, emptySnapshot, time.Hour)

	auto.Changed()
	require.NoError(t, auto.Flush())
	assert.Equal(t, 1, saver.count())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, saver.count())
}
