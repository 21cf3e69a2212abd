// Package persistence projects a curated subset of the engine state into a
// durable, schema-versioned blob and reconstructs it at startup.
// Rehydration is defensive: malformed persisted data degrades to sane
// defaults and never surfaces as an error.
package persistence

import (
	"github.com/souschef-ai/souschef/internal/notification"
	"github.com/souschef-ai/souschef/internal/recipes"
	"github.com/souschef-ai/souschef/internal/session"
)

// SchemaVersion tags the persisted blob layout.
const SchemaVersion = 1

// Snapshot is the persisted subset of application state. Timestamps
// serialize as RFC3339Nano strings and pass through CoerceTimestamp on the
// way back in.
type Snapshot struct {
	SchemaVersion    int                         `json:"schema_version"`
	Preferences      recipes.Preferences         `json:"preferences"`
	Favorites        []recipes.Ref               `json:"favorites"`
	Ratings          []recipes.Rating            `json:"ratings"`
	Sessions         []*session.Session          `json:"sessions"`
	CurrentSessionID string                      `json:"current_session_id"`
	RecentlyViewed   []recipes.Ref               `json:"recently_viewed"`
	Theme            string                      `json:"theme"`
	Notifications    []notification.Notification `json:"notifications"`
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		SchemaVersion:  SchemaVersion,
		Favorites:      []recipes.Ref{},
		Ratings:        []recipes.Rating{},
		Sessions:       []*session.Session{},
		RecentlyViewed: []recipes.Ref{},
		Theme:          string(recipes.ThemeSystem),
		Notifications:  []notification.Notification{},
	}
}

// Capture assembles a snapshot of the current store and recipe state.
// Transient notifications are never captured.
func Capture(store *session.Store, state *recipes.State) *Snapshot {
	return &Snapshot{
		SchemaVersion:    SchemaVersion,
		Preferences:      state.Preferences(),
		Favorites:        state.Favorites(),
		Ratings:          state.Ratings(),
		Sessions:         store.Sessions(),
		CurrentSessionID: store.CurrentID(),
		RecentlyViewed:   state.RecentlyViewed(),
		Theme:            string(state.Theme()),
		Notifications:    []notification.Notification{},
	}
}

// Apply restores a snapshot into the store and recipe state.
func Apply(snap *Snapshot, store *session.Store, state *recipes.State) {
	store.Restore(snap.Sessions, snap.CurrentSessionID)
	state.Restore(snap.Favorites, snap.Ratings, snap.RecentlyViewed, snap.Preferences, recipes.ParseTheme(snap.Theme))
}
