package session

import (
	"strings"
	"time"
)

const (
	titleMaxLength = 30
	titleSuffix    = "..."
)

// Session is one conversation thread. Messages are append-ordered; history
// is never reordered or deleted.
type Session struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Messages = make([]*Message, len(s.Messages))
	for i, m := range s.Messages {
		clone.Messages[i] = m.Clone()
	}
	return &clone
}

// DeriveTitle builds a session title from its first message: the content
// truncated to 30 characters with a "..." suffix when truncated. The title
// is derived once and never recomputed.
func DeriveTitle(content string) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= titleMaxLength {
		return content
	}
	return string(runes[:titleMaxLength]) + titleSuffix
}
