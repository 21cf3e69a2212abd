package persistence

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/souschef-ai/souschef/internal/notification"
	"github.com/souschef-ai/souschef/internal/recipes"
	"github.com/souschef-ai/souschef/internal/session"
)

// CoerceTimestamp reconstructs a temporal value from whatever shape was
// persisted. A parseable RFC3339 string or a positive unix number (seconds,
// milliseconds or microseconds, by magnitude) converts; anything else,
// including absence, substitutes the current time. Total: never fails.
func CoerceTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Now()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Now()
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil && n > 0 {
		switch {
		case n < 1e11:
			return time.Unix(int64(n), 0)
		case n < 1e14:
			return time.UnixMilli(int64(n))
		default:
			return time.UnixMicro(int64(n))
		}
	}

	return time.Now()
}

// coerceList interprets raw as a JSON array of elements. Anything that is
// not array-shaped yields the empty list.
func coerceList(raw json.RawMessage) []json.RawMessage {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return []json.RawMessage{}
	}
	return elements
}

// decodeSnapshot rebuilds a snapshot from persisted bytes, field by field.
// No malformation propagates: a bad field degrades to its default, a bad
// session or message element is dropped, and the transient notification
// list always rehydrates empty.
func decodeSnapshot(data []byte) *Snapshot {
	snap := emptySnapshot()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return snap
	}

	var version int
	if err := json.Unmarshal(fields["schema_version"], &version); err == nil {
		snap.SchemaVersion = version
	}
	_ = json.Unmarshal(fields["preferences"], &snap.Preferences)
	_ = json.Unmarshal(fields["current_session_id"], &snap.CurrentSessionID)

	var theme string
	if err := json.Unmarshal(fields["theme"], &theme); err == nil {
		snap.Theme = string(recipes.ParseTheme(theme))
	}

	for _, raw := range coerceList(fields["favorites"]) {
		var ref recipes.Ref
		if err := json.Unmarshal(raw, &ref); err == nil && ref.ID != "" {
			snap.Favorites = append(snap.Favorites, ref)
		}
	}
	for _, raw := range coerceList(fields["recently_viewed"]) {
		var ref recipes.Ref
		if err := json.Unmarshal(raw, &ref); err == nil && ref.ID != "" {
			snap.RecentlyViewed = append(snap.RecentlyViewed, ref)
		}
	}
	for _, raw := range coerceList(fields["ratings"]) {
		if rating, ok := decodeRating(raw); ok {
			snap.Ratings = append(snap.Ratings, rating)
		}
	}
	for _, raw := range coerceList(fields["sessions"]) {
		if sess, ok := decodeSession(raw); ok {
			snap.Sessions = append(snap.Sessions, sess)
		}
	}

	// Notifications are ephemeral; whatever was persisted stays empty.
	snap.Notifications = []notification.Notification{}
	return snap
}

func decodeRating(raw json.RawMessage) (recipes.Rating, bool) {
	var fields struct {
		RecipeID string          `json:"recipe_id"`
		Score    int             `json:"score"`
		RatedAt  json.RawMessage `json:"rated_at"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil || fields.RecipeID == "" {
		return recipes.Rating{}, false
	}
	return recipes.Rating{
		RecipeID: fields.RecipeID,
		Score:    fields.Score,
		RatedAt:  CoerceTimestamp(fields.RatedAt),
	}, true
}

func decodeSession(raw json.RawMessage) (*session.Session, bool) {
	var fields struct {
		ID        string          `json:"id"`
		Title     string          `json:"title"`
		Messages  json.RawMessage `json:"messages"`
		CreatedAt json.RawMessage `json:"created_at"`
		UpdatedAt json.RawMessage `json:"updated_at"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	if fields.ID == "" {
		fields.ID = uuid.NewString()
	}

	sess := &session.Session{
		ID:        fields.ID,
		Title:     fields.Title,
		Messages:  []*session.Message{},
		CreatedAt: CoerceTimestamp(fields.CreatedAt),
		UpdatedAt: CoerceTimestamp(fields.UpdatedAt),
	}
	for _, rawMsg := range coerceList(fields.Messages) {
		if msg, ok := decodeMessage(rawMsg); ok {
			sess.Messages = append(sess.Messages, msg)
		}
	}
	return sess, true
}

func decodeMessage(raw json.RawMessage) (*session.Message, bool) {
	var fields struct {
		ID        string                  `json:"id"`
		Role      session.Role            `json:"role"`
		Content   string                  `json:"content"`
		Timestamp json.RawMessage         `json:"timestamp"`
		Feedback  session.FeedbackKind    `json:"feedback"`
		Metadata  []session.MetadataEntry `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	if fields.ID == "" {
		fields.ID = uuid.NewString()
	}
	if fields.Role == "" {
		fields.Role = session.RoleAssistant
	}
	return &session.Message{
		ID:        fields.ID,
		Role:      fields.Role,
		Content:   fields.Content,
		Timestamp: CoerceTimestamp(fields.Timestamp),
		Feedback:  fields.Feedback,
		Metadata:  fields.Metadata,
	}, true
}
