package notification

import "sync"

// Forwarder is a Notifier whose sink is attached after construction. The
// engine is wired before any presentation surface exists; the surface calls
// SetSink once it can display notifications. Notifications raised before a
// sink is attached are buffered and delivered on attach.
type Forwarder struct {
	mu      sync.Mutex
	sink    Notifier
	backlog []Notification
}

// NewForwarder returns a Forwarder with no sink attached.
func NewForwarder() *Forwarder {
	return &Forwarder{}
}

// Notify delivers to the sink, or buffers until one is attached.
func (f *Forwarder) Notify(n Notification) {
	f.mu.Lock()
	sink := f.sink
	if sink == nil {
		f.backlog = append(f.backlog, n)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	sink.Notify(n)
}

// SetSink attaches the sink and flushes any buffered notifications.
func (f *Forwarder) SetSink(sink Notifier) {
	f.mu.Lock()
	f.sink = sink
	backlog := f.backlog
	f.backlog = nil
	f.mu.Unlock()

	if sink == nil {
		return
	}
	for _, n := range backlog {
		sink.Notify(n)
	}
}
