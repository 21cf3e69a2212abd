// Package notification defines the structured event boundary between the
// conversation core and whatever surface presents alerts to the user. The
// core emits notifications; it never renders them.
package notification

import "time"

// Kind classifies a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// DefaultDuration is used when a notification does not specify one.
const DefaultDuration = 3 * time.Second

// Notification is a single user-visible event.
type Notification struct {
	Kind     Kind
	Title    string
	Message  string
	Duration time.Duration
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(Notification)
}

// Func adapts a function to the Notifier interface.
type Func func(Notification)

// Notify implements Notifier.
func (f Func) Notify(n Notification) { f(n) }

// Nop discards all notifications.
var Nop Notifier = Func(func(Notification) {})

// Info builds an info notification.
func Info(title, message string) Notification {
	return Notification{Kind: KindInfo, Title: title, Message: message, Duration: DefaultDuration}
}

// Success builds a success notification.
func Success(title, message string) Notification {
	return Notification{Kind: KindSuccess, Title: title, Message: message, Duration: DefaultDuration}
}

// Error builds an error notification.
func Error(title, message string) Notification {
	return Notification{Kind: KindError, Title: title, Message: message, Duration: DefaultDuration}
}
