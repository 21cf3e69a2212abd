package session

import (
	"encoding/json"
	"time"

	"github.com/souschef-ai/souschef/internal/recipes"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// FeedbackKind is a user's verdict on an assistant message.
type FeedbackKind string

const (
	FeedbackHelpful   FeedbackKind = "helpful"
	FeedbackUnhelpful FeedbackKind = "unhelpful"
)

// MetadataKind tags a metadata entry. The set of kinds is closed; entries
// with an unrecognized kind are carried opaquely rather than dropped.
type MetadataKind string

const (
	// MetadataRelatedRecipes carries recipe references relevant to the message.
	MetadataRelatedRecipes MetadataKind = "related_recipes"
	// MetadataSuggestions carries follow-up prompt suggestions.
	MetadataSuggestions MetadataKind = "suggestions"
	// MetadataContext carries a summary of the retrieval context used.
	MetadataContext MetadataKind = "context"
	// MetadataOpaque is the fallback for payloads this version does not know.
	MetadataOpaque MetadataKind = "opaque"
)

// MetadataEntry is one tagged metadata payload. Exactly one payload field is
// populated, matching Kind; unknown payloads keep their raw bytes in Raw.
type MetadataEntry struct {
	Kind           MetadataKind    `json:"kind"`
	RelatedRecipes []recipes.Ref   `json:"related_recipes,omitempty"`
	Suggestions    []string        `json:"suggestions,omitempty"`
	Context        string          `json:"context,omitempty"`
	Raw            json.RawMessage `json:"raw,omitempty"`
}

// Message is one turn of a session.
type Message struct {
	ID        string          `json:"id"`
	Role      Role            `json:"role"`
	Content   string          `json:"content"`
	Timestamp time.Time       `json:"timestamp"`
	Feedback  FeedbackKind    `json:"feedback,omitempty"`
	Metadata  []MetadataEntry `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	clone := *m
	if m.Metadata != nil {
		clone.Metadata = make([]MetadataEntry, len(m.Metadata))
		for i, e := range m.Metadata {
			entry := e
			entry.RelatedRecipes = append([]recipes.Ref{}, e.RelatedRecipes...)
			entry.Suggestions = append([]string{}, e.Suggestions...)
			entry.Raw = append(json.RawMessage{}, e.Raw...)
			clone.Metadata[i] = entry
		}
	}
	return &clone
}
