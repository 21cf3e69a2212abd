package chat

import (
	"sync"

	"github.com/pkg/errors"
	"golang.design/x/clipboard"
)

// SystemClipboard writes through golang.design/x/clipboard. Initialization
// can fail on headless terminals; the error is kept and returned on every
// write so copy surfaces a notification instead of crashing.
type SystemClipboard struct {
	once    sync.Once
	initErr error
}

// Write puts text on the system clipboard.
func (c *SystemClipboard) Write(text string) error {
	c.once.Do(func() {
		c.initErr = clipboard.Init()
	})
	if c.initErr != nil {
		return errors.Wrap(c.initErr, "clipboard unavailable")
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
