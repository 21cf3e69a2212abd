// Package chat composes the session store, the streaming controller and
// the outward boundaries (clipboard, notifications) into the operations
// the presentation layer calls.
package chat

import (
	"context"

	"github.com/souschef-ai/souschef/internal/notification"
	"github.com/souschef-ai/souschef/internal/session"
	"github.com/souschef-ai/souschef/internal/streaming"
)

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	Write(text string) error
}

// Orchestrator is the public entry point of the conversation engine.
type Orchestrator struct {
	store      *session.Store
	controller *streaming.Controller
	notifier   notification.Notifier
	clipboard  Clipboard
}

// NewOrchestrator wires the orchestrator. clipboard may be nil when no
// clipboard surface exists (copy then reports failure).
func NewOrchestrator(store *session.Store, controller *streaming.Controller, notifier notification.Notifier, clipboard Clipboard) *Orchestrator {
	if notifier == nil {
		notifier = notification.Nop
	}
	return &Orchestrator{store: store, controller: controller, notifier: notifier, clipboard: clipboard}
}

// Store exposes the underlying session store for read access.
func (o *Orchestrator) Store() *session.Store { return o.store }

// SendMessage appends the user message to the current session and starts
// streaming the response. Returns nil for whitespace-only content.
func (o *Orchestrator) SendMessage(ctx context.Context, content string) *streaming.Handle {
	return o.controller.Send(ctx, content)
}

// StopGeneration cancels any in-flight generation and resets the flags.
func (o *Orchestrator) StopGeneration() {
	o.controller.Stop()
}

// RegenerateResponse reruns generation for an assistant message in the
// current session, writing into the same message id. No-op (returns nil)
// unless the target is an assistant message immediately preceded by a user
// message.
func (o *Orchestrator) RegenerateResponse(ctx context.Context, messageID string) *streaming.Handle {
	current := o.store.Current()
	if current == nil {
		return nil
	}

	index := -1
	for i, msg := range current.Messages {
		if msg.ID == messageID {
			index = i
			break
		}
	}
	if index <= 0 || current.Messages[index].Role != session.RoleAssistant {
		return nil
	}
	preceding := current.Messages[index-1]
	if preceding.Role != session.RoleUser {
		return nil
	}

	o.store.UpdateMessage(current.ID, messageID, "")
	return o.controller.Regenerate(ctx, preceding.Content, current.ID, messageID)
}

// CopyMessage writes content to the clipboard and reports the outcome.
func (o *Orchestrator) CopyMessage(content string) {
	if o.clipboard == nil {
		o.notifier.Notify(notification.Error("Copy failed", "no clipboard available"))
		return
	}
	if err := o.clipboard.Write(content); err != nil {
		o.notifier.Notify(notification.Error("Copy failed", err.Error()))
		return
	}
	o.notifier.Notify(notification.Success("Copied to clipboard", ""))
}

// ProvideFeedback records a verdict on a message of the current session.
// Unknown ids are silent no-ops.
func (o *Orchestrator) ProvideFeedback(messageID string, kind session.FeedbackKind) {
	current := o.store.Current()
	if current == nil {
		return
	}
	found := false
	for _, msg := range current.Messages {
		if msg.ID == messageID {
			found = true
			break
		}
	}
	if !found {
		return
	}
	o.store.RecordFeedback(current.ID, messageID, kind)
	o.notifier.Notify(notification.Success("Thanks for your feedback", ""))
}
