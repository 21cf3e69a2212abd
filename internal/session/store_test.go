package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionOrderingAndCurrent(t *testing.T) {
	s := NewStore()

	first := s.CreateSession("first")
	second := s.CreateSession("second")
	third := s.CreateSession("third")

	sessions := s.Sessions()
	require.Len(t, sessions, 3)
	assert.Equal(t, third, sessions[0].ID)
	assert.Equal(t, second, sessions[1].ID)
	assert.Equal(t, first, sessions[2].ID)
	assert.Equal(t, third, s.CurrentID())
}

func TestSwitchSession(t *testing.T) {
	s := NewStore()
	first := s.CreateSession("")
	s.CreateSession("")

	s.SwitchSession(first)
	assert.Equal(t, first, s.CurrentID())

	// A missing id clears the selection rather than erroring.
	s.SwitchSession("no-such-session")
	assert.Empty(t, s.CurrentID())
	assert.Nil(t, s.Current())
}

func TestDeleteSession(t *testing.T) {
	s := NewStore()
	first := s.CreateSession("")
	second := s.CreateSession("")

	s.DeleteSession(second)
	assert.Equal(t, first, s.CurrentID())
	require.Len(t, s.Sessions(), 1)

	s.DeleteSession(first)
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Sessions())

	// Deleting a missing id is a no-op.
	s.DeleteSession("gone")
}

func TestDeleteNonCurrentKeepsSelection(t *testing.T) {
	s := NewStore()
	first := s.CreateSession("")
	second := s.CreateSession("")

	s.SwitchSession(first)
	s.DeleteSession(second)
	assert.Equal(t, first, s.CurrentID())
}

func TestRenameSession(t *testing.T) {
	s := NewStore()
	id := s.CreateSession("old")

	s.RenameSession(id, "new")
	sess, ok := s.Session(id)
	require.True(t, ok)
	assert.Equal(t, "new", sess.Title)

	// Missing id is a silent no-op.
	s.RenameSession("missing", "whatever")
}

func TestAddMessageReturnsUsableID(t *testing.T) {
	s := NewStore()
	id := s.CreateSession("")

	msgID, ok := s.AddMessage(id, RoleUser, "how do I make a roux?", nil)
	require.True(t, ok)
	require.NotEmpty(t, msgID)

	s.UpdateMessage(id, msgID, "updated")
	sess, _ := s.Session(id)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, "updated", sess.Messages[0].Content)
	assert.Equal(t, RoleUser, sess.Messages[0].Role)
	assert.False(t, sess.Messages[0].Timestamp.IsZero())
}

func TestAddMessageMissingSession(t *testing.T) {
	s := NewStore()
	msgID, ok := s.AddMessage("missing", RoleUser, "hello", nil)
	assert.False(t, ok)
	assert.Empty(t, msgID)
}

func TestUpdateMessageMissingIDs(t *testing.T) {
	s := NewStore()
	id := s.CreateSession("")
	msgID, _ := s.AddMessage(id, RoleUser, "original", nil)

	s.UpdateMessage("missing", msgID, "changed")
	s.UpdateMessage(id, "missing", "changed")

	sess, _ := s.Session(id)
	assert.Equal(t, "original", sess.Messages[0].Content)
}

func TestMessagesAppendOrdered(t *testing.T) {
	s := NewStore()
	id := s.CreateSession("")
	for _, content := range []string{"one", "two", "three"} {
		_, ok := s.AddMessage(id, RoleUser, content, nil)
		require.True(t, ok)
	}
	sess, _ := s.Session(id)
	require.Len(t, sess.Messages, 3)
	assert.Equal(t, "one", sess.Messages[0].Content)
	assert.Equal(t, "three", sess.Messages[2].Content)
}

func TestRecordFeedback(t *testing.T) {
	s := NewStore()
	id := s.CreateSession("")
	msgID, _ := s.AddMessage(id, RoleAssistant, "try searing first", nil)

	s.RecordFeedback(id, msgID, FeedbackHelpful)
	sess, _ := s.Session(id)
	assert.Equal(t, FeedbackHelpful, sess.Messages[0].Feedback)

	s.RecordFeedback(id, "missing", FeedbackUnhelpful)
}

func TestFlags(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Loading())
	assert.False(t, s.Streaming())

	s.SetLoading(true)
	s.SetStreaming(true)
	assert.True(t, s.Loading())
	assert.True(t, s.Streaming())

	s.SetLoading(false)
	s.SetStreaming(false)
	assert.False(t, s.Loading())
	assert.False(t, s.Streaming())
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := NewStore()
	id := s.CreateSession("title")
	s.AddMessage(id, RoleUser, "original", nil)

	clone := s.Current()
	clone.Title = "mutated"
	clone.Messages[0].Content = "mutated"

	sess, _ := s.Session(id)
	assert.Equal(t, "title", sess.Title)
	assert.Equal(t, "original", sess.Messages[0].Content)
}

func TestSubscribeFiresOnMutation(t *testing.T) {
	s := NewStore()
	count := 0
	s.Subscribe(func() { count++ })

	id := s.CreateSession("")
	s.AddMessage(id, RoleUser, "hello", nil)
	assert.Equal(t, 2, count)
}

func TestRestore(t *testing.T) {
	s := NewStore()
	sessions := []*Session{
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B"},
	}
	s.Restore(sessions, "b")
	assert.Equal(t, "b", s.CurrentID())
	require.Len(t, s.Sessions(), 2)

	// An unknown current id clears the selection.
	s.Restore(sessions, "missing")
	assert.Empty(t, s.CurrentID())
}

func TestDeriveTitle(t *testing.T) {
	long := strings.Repeat("x", 35)
	assert.Equal(t, strings.Repeat("x", 30)+"...", DeriveTitle(long))

	short := strings.Repeat("y", 20)
	assert.Equal(t, short, DeriveTitle(short))

	exact := strings.Repeat("z", 30)
	assert.Equal(t, exact, DeriveTitle(exact))

	assert.Equal(t, "salt fat acid heat", DeriveTitle("  salt fat acid heat  "))
}
