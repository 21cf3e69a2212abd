// Package history keeps the input history of the chat textarea, persisted
// to a flat file so it survives restarts.
package history

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	historyFileName = "souschef_input_history"
	maxEntries      = 1000
)

// History holds past inputs and a navigation cursor. An index of -1 means
// the user is composing new input.
type History struct {
	mu      sync.Mutex
	entries []string
	index   int
	current string // input in the textarea when navigation started
	path    string
}

// NewHistory loads the persisted history, if any.
func NewHistory() *History {
	return newHistory(filepath.Join(os.TempDir(), historyFileName))
}

func newHistory(path string) *History {
	h := &History{
		index: -1,
		path:  path,
	}
	h.load()
	return h
}

func (h *History) load() {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := unescape(scanner.Text())
		if line != "" {
			h.entries = append(h.entries, line)
		}
	}
	if len(h.entries) > maxEntries {
		h.entries = h.entries[len(h.entries)-maxEntries:]
	}
}

func (h *History) save() {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Create(h.path)
	if err != nil {
		// History persistence failures are not worth surfacing.
		return
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, entry := range h.entries {
		writer.WriteString(escape(entry) + "\n")
	}
	writer.Flush()
}

// Add records an entry and resets navigation. Blank entries and immediate
// duplicates are skipped.
func (h *History) Add(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}

	h.mu.Lock()
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == entry {
		h.index = -1
		h.current = ""
		h.mu.Unlock()
		return
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > maxEntries {
		h.entries = h.entries[len(h.entries)-maxEntries:]
	}
	h.index = -1
	h.current = ""
	h.mu.Unlock()

	h.save()
}

// Previous moves the cursor one entry back. currentInput is stashed on the
// first step so Next can restore it.
func (h *History) Previous(currentInput string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return "", false
	}

	switch {
	case h.index == -1:
		h.current = currentInput
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	default:
		return h.entries[0], false
	}
	return h.entries[h.index], true
}

// Next moves the cursor one entry forward, returning the stashed input once
// the cursor steps past the newest entry.
func (h *History) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == -1 {
		return "", false
	}
	h.index++
	if h.index >= len(h.entries) {
		h.index = -1
		return h.current, true
	}
	return h.entries[h.index], true
}

// Reset abandons navigation. Call when the input is edited.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.index = -1
	h.current = ""
}

// Entries are stored one per line, so embedded newlines are escaped.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "\n", "\\n")
}

func unescape(s string) string {
	s = strings.ReplaceAll(s, "\\n", "\n")
	return strings.ReplaceAll(s, "\\\\", "\\")
}
