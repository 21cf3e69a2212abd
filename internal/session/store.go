// Package session implements the conversation state store: an in-memory
// tree of sessions and messages with atomic, synchronous mutation
// operations. The store is the single shared mutable resource of the
// engine; every mutation runs to completion under one mutex, so no partial
// update is ever observable between two logical operations.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds every session, the current-session selection and the
// generation-in-flight flags. Mutations signal registered change listeners
// after the lock is released; persistence subscribes to that signal.
type Store struct {
	mu        sync.Mutex
	sessions  []*Session // most-recently-created-first
	current   *Session   // nil or an element of sessions, never a stale copy
	loading   bool
	streaming bool
	listeners []func()
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Subscribe registers a change listener invoked after every mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) changed() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// CreateSession allocates a new session, inserts it at the head of the
// session list and makes it current. Always succeeds.
func (s *Store) CreateSession(titleHint string) string {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Title:     titleHint,
		Messages:  []*Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions = append([]*Session{sess}, s.sessions...)
	s.current = sess
	s.mu.Unlock()

	s.changed()
	return sess.ID
}

// SwitchSession makes the matching session current. A missing id clears the
// selection; it is not an error.
func (s *Store) SwitchSession(id string) {
	s.mu.Lock()
	s.current = s.find(id)
	s.mu.Unlock()
	s.changed()
}

// DeleteSession removes the session. If it was current, the head of the
// remaining list becomes current (or nil when none remain). Whether the
// last session may be deleted is caller policy, not enforced here.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	kept := s.sessions[:0:0]
	removed := false
	for _, sess := range s.sessions {
		if sess.ID == id {
			removed = true
			continue
		}
		kept = append(kept, sess)
	}
	if !removed {
		s.mu.Unlock()
		return
	}
	s.sessions = kept
	if s.current != nil && s.current.ID == id {
		if len(s.sessions) > 0 {
			s.current = s.sessions[0]
		} else {
			s.current = nil
		}
	}
	s.mu.Unlock()
	s.changed()
}

// RenameSession replaces the session title. No-op if the id is not found.
func (s *Store) RenameSession(id, title string) {
	s.mu.Lock()
	sess := s.find(id)
	if sess == nil {
		s.mu.Unlock()
		return
	}
	sess.Title = title
	sess.UpdatedAt = time.Now()
	s.mu.Unlock()
	s.changed()
}

// AddMessage appends a message to the session and returns its freshly
// generated id, usable immediately for a follow-up UpdateMessage. Returns
// ("", false) without state change if the session is not found.
func (s *Store) AddMessage(sessionID string, role Role, content string, metadata []MetadataEntry) (string, bool) {
	s.mu.Lock()
	sess := s.find(sessionID)
	if sess == nil {
		s.mu.Unlock()
		return "", false
	}
	now := time.Now()
	msg := &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: now,
		Metadata:  metadata,
	}
	sess.Messages = append(sess.Messages, msg)
	sess.UpdatedAt = now
	s.mu.Unlock()
	s.changed()
	return msg.ID, true
}

// UpdateMessage replaces the content of the matching message by full value.
// No-op if either id is not found.
func (s *Store) UpdateMessage(sessionID, messageID, content string) {
	s.mu.Lock()
	msg, sess := s.findMessage(sessionID, messageID)
	if msg == nil {
		s.mu.Unlock()
		return
	}
	msg.Content = content
	sess.UpdatedAt = time.Now()
	s.mu.Unlock()
	s.changed()
}

// SetMessageMetadata replaces the metadata entries of the matching message.
// No-op if either id is not found.
func (s *Store) SetMessageMetadata(sessionID, messageID string, entries []MetadataEntry) {
	s.mu.Lock()
	msg, sess := s.findMessage(sessionID, messageID)
	if msg == nil {
		s.mu.Unlock()
		return
	}
	msg.Metadata = entries
	sess.UpdatedAt = time.Now()
	s.mu.Unlock()
	s.changed()
}

// RecordFeedback sets the feedback kind on the matching message.
// No-op if either id is not found.
func (s *Store) RecordFeedback(sessionID, messageID string, kind FeedbackKind) {
	s.mu.Lock()
	msg, sess := s.findMessage(sessionID, messageID)
	if msg == nil {
		s.mu.Unlock()
		return
	}
	msg.Feedback = kind
	sess.UpdatedAt = time.Now()
	s.mu.Unlock()
	s.changed()
}

// SetLoading sets the request-in-flight flag.
func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.changed()
}

// SetStreaming sets the chunks-arriving flag. Loading and streaming are
// kept independently settable even though the engine currently flips them
// together.
func (s *Store) SetStreaming(v bool) {
	s.mu.Lock()
	s.streaming = v
	s.mu.Unlock()
	s.changed()
}

// Loading reports the request-in-flight flag.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Streaming reports the chunks-arriving flag.
func (s *Store) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// Sessions returns a deep copy of the session list, most recent first.
func (s *Store) Sessions() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := make([]*Session, len(s.sessions))
	for i, sess := range s.sessions {
		sessions[i] = sess.Clone()
	}
	return sessions
}

// Session returns a deep copy of the matching session.
func (s *Store) Session(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.find(id)
	if sess == nil {
		return nil, false
	}
	return sess.Clone(), true
}

// Current returns a deep copy of the current session, or nil.
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return s.current.Clone()
}

// CurrentID returns the id of the current session, or "".
func (s *Store) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// Restore replaces the session list and selection from a persisted
// snapshot without signaling change. A current id that matches no session
// clears the selection.
func (s *Store) Restore(sessions []*Session, currentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make([]*Session, len(sessions))
	for i, sess := range sessions {
		s.sessions[i] = sess.Clone()
	}
	s.current = s.find(currentID)
}

// find returns the session matching id, or nil. Caller holds the lock.
func (s *Store) find(id string) *Session {
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// findMessage returns the message and its session, or nils.
// Caller holds the lock.
func (s *Store) findMessage(sessionID, messageID string) (*Message, *Session) {
	sess := s.find(sessionID)
	if sess == nil {
		return nil, nil
	}
	for _, msg := range sess.Messages {
		if msg.ID == messageID {
			return msg, sess
		}
	}
	return nil, nil
}
