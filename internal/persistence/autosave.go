package persistence

import (
	"sync"
	"time"

	"github.com/souschef-ai/souschef/internal/debug"
)

var log = debug.GetLogger()

// DefaultDebounce is the quiet period before a change is flushed.
const DefaultDebounce = 500 * time.Millisecond

// Saver persists snapshots. Satisfied by *Adapter.
type Saver interface {
	Save(*Snapshot) error
}

// Autosaver coalesces change signals into debounced snapshot writes. It is
// the bridge between the stores' mutation observers and the adapter.
type Autosaver struct {
	saver   Saver
	capture func() *Snapshot
	delay   time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewAutosaver builds an autosaver. capture is called at flush time to
// assemble the snapshot. A non-positive delay uses DefaultDebounce.
func NewAutosaver(saver Saver, capture func() *Snapshot, delay time.Duration) *Autosaver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Autosaver{saver: saver, capture: capture, delay: delay}
}

// Changed schedules a flush after the quiet period, resetting any pending
// timer. Intended as a Subscribe callback; it never blocks on I/O.
func (a *Autosaver) Changed() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		if err := a.Flush(); err != nil {
			log.Debug("autosave flush failed", "error", err)
		}
	})
}

// Flush writes a snapshot immediately, cancelling any pending timer.
// Call on shutdown so the last mutations are not lost to the debounce.
func (a *Autosaver) Flush() error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	return a.saver.Save(a.capture())
}
