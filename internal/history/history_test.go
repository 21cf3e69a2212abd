package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigation(t *testing.T) {
	h := newHistory(filepath.Join(t.TempDir(), "history"))
	h.Add("first")
	h.Add("second")
	h.Add("third")

	entry, ok := h.Previous("draft")
	require.True(t, ok)
	assert.Equal(t, "third", entry)

	entry, ok = h.Previous("")
	require.True(t, ok)
	assert.Equal(t, "second", entry)

	// Forward again, ending back at the stashed draft.
	entry, ok = h.Next()
	require.True(t, ok)
	assert.Equal(t, "third", entry)

	entry, ok = h.Next()
	require.True(t, ok)
	assert.Equal(t, "draft", entry)

	// Past the newest position there is nothing.
	_, ok = h.Next()
	assert.False(t, ok)
}

func TestPreviousStopsAtOldestEntry(t *testing.T) {
	h := newHistory(filepath.Join(t.TempDir(), "history"))
	h.Add("only")

	entry, ok := h.Previous("")
	require.True(t, ok)
	assert.Equal(t, "only", entry)

	entry, ok = h.Previous("")
	assert.False(t, ok)
	assert.Equal(t, "only", entry)
}

func TestAddSkipsBlanksAndImmediateDuplicates(t *testing.T) {
	h := newHistory(filepath.Join(t.TempDir(), "history"))
	h.Add("  ")
	h.Add("pasta")
	h.Add("pasta")
	h.Add("soup")

	assert.Equal(t, []string{"pasta", "soup"}, h.entries)
}

func TestPersistsMultilineEntriesAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	h := newHistory(path)
	h.Add("line one\nline two")
	h.Add("with a \\ backslash")

	reloaded := newHistory(path)
	require.Len(t, reloaded.entries, 2)
	assert.Equal(t, "line one\nline two", reloaded.entries[0])
	assert.Equal(t, "with a \\ backslash", reloaded.entries[1])
}

func TestResetAbandonsNavigation(t *testing.T) {
	h := newHistory(filepath.Join(t.TempDir(), "history"))
	h.Add("a")
	h.Add("b")

	h.Previous("draft")
	h.Reset()

	entry, ok := h.Previous("other")
	require.True(t, ok)
	assert.Equal(t, "b", entry)
}
