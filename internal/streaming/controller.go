// Package streaming drives the incremental response pipeline: it opens a
// cancellable chunked producer for a session, folds fragments into the
// placeholder message as whole-value replacements, falls back to a single
// shot call on mid-stream failure, and guarantees the loading/streaming
// flags are reset exactly once on every terminal path.
package streaming

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/souschef-ai/souschef/internal/debug"
	"github.com/souschef-ai/souschef/internal/notification"
	"github.com/souschef-ai/souschef/internal/session"
)

var log = debug.GetLogger()

// Fixed replacement texts. A placeholder message is never left empty once
// its generation attempt has terminated.
const (
	EmptyResponseApology  = "I'm sorry, I couldn't come up with a response. Please try asking again."
	NetworkFailureApology = "I'm sorry, something went wrong while preparing your answer. Please check your connection and try again."
)

// Producer yields incremental text fragments of one response. Recv returns
// io.EOF on normal termination.
type Producer interface {
	Recv() (string, error)
	Close()
}

// Transport opens a chunked producer for (content, sessionID). The degraded
// single-shot mode takes only the first value of a fresh producer.
type Transport interface {
	Produce(ctx context.Context, content, sessionID string) (Producer, error)
}

// State of one send operation.
type State int32

const (
	StateIdle State = iota
	StateRequested
	StateStreaming
	StateCompleted
	StateFailedFallback
	StateAborted
)

// Handle tracks one in-flight generation. At most one live handle exists
// across the whole engine: a new send supersedes any prior handle,
// whatever session it belonged to.
type Handle struct {
	SessionID     string
	MessageID     string
	UserMessageID string

	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
}

// State returns the handle's current state.
func (h *Handle) State() State { return State(h.state.Load()) }

// Done is closed when the handle reaches a terminal state and its flags
// have been reset.
func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) setState(s State) { h.state.Store(int32(s)) }

// Controller owns the global stream handle and the folding loop.
type Controller struct {
	store     *session.Store
	transport Transport
	notifier  notification.Notifier

	mu     sync.Mutex
	active *Handle
}

// NewController wires a controller to the store and transport.
func NewController(store *session.Store, transport Transport, notifier notification.Notifier) *Controller {
	if notifier == nil {
		notifier = notification.Nop
	}
	return &Controller{store: store, transport: transport, notifier: notifier}
}

// Active returns the live handle, or nil.
func (c *Controller) Active() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Send appends the user message and an empty assistant placeholder to the
// current session (creating one if none is selected), then starts the
// response pipeline. Whitespace-only content is ignored and returns nil.
// The first message of a session derives its title.
func (c *Controller) Send(ctx context.Context, content string) *Handle {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	sessionID := c.store.CurrentID()
	if sessionID == "" {
		sessionID = c.store.CreateSession("")
	}
	current, ok := c.store.Session(sessionID)
	if !ok {
		return nil
	}
	firstMessage := len(current.Messages) == 0

	userID, ok := c.store.AddMessage(sessionID, session.RoleUser, content, nil)
	if !ok {
		return nil
	}
	if firstMessage {
		c.store.RenameSession(sessionID, session.DeriveTitle(content))
	}
	placeholderID, _ := c.store.AddMessage(sessionID, session.RoleAssistant, "", nil)

	h := c.start(ctx, content, sessionID, placeholderID)
	h.UserMessageID = userID
	return h
}

// Regenerate reruns the pipeline for an existing assistant message,
// writing into the same message id. The caller has already validated the
// target and cleared its content.
func (c *Controller) Regenerate(ctx context.Context, content, sessionID, messageID string) *Handle {
	return c.start(ctx, content, sessionID, messageID)
}

// start supersedes any live handle, raises the flags and launches the
// folding loop.
func (c *Controller) start(ctx context.Context, content, sessionID, messageID string) *Handle {
	streamCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		SessionID: sessionID,
		MessageID: messageID,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	h.setState(StateRequested)

	c.mu.Lock()
	prior := c.active
	c.active = h
	c.mu.Unlock()
	if prior != nil {
		prior.cancel()
		prior.setState(StateAborted)
	}

	c.store.SetLoading(true)
	c.store.SetStreaming(true)

	go c.run(streamCtx, h, content)
	return h
}

// run is the folding loop. The deferred finish is the single guaranteed
// flag-reset path for this handle, reached on every terminal state
// including a synchronous Produce failure.
func (c *Controller) run(ctx context.Context, h *Handle, content string) {
	defer c.finish(h)

	producer, err := c.transport.Produce(ctx, content, h.SessionID)
	if err != nil {
		if ctx.Err() != nil {
			h.setState(StateAborted)
			return
		}
		log.Debug("opening producer failed", "session", h.SessionID, "error", err)
		c.fallback(ctx, h, content)
		return
	}
	defer producer.Close()
	h.setState(StateStreaming)

	var buffer strings.Builder
	for {
		if ctx.Err() != nil {
			// Aborted: already-folded partial content stays in place.
			h.setState(StateAborted)
			return
		}
		fragment, err := producer.Recv()
		if errors.Is(err, io.EOF) {
			if strings.TrimSpace(buffer.String()) == "" {
				c.store.UpdateMessage(h.SessionID, h.MessageID, EmptyResponseApology)
			}
			h.setState(StateCompleted)
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				h.setState(StateAborted)
				return
			}
			log.Debug("stream broke mid-response", "session", h.SessionID, "error", err)
			c.fallback(ctx, h, content)
			return
		}
		if ctx.Err() != nil {
			h.setState(StateAborted)
			return
		}
		buffer.WriteString(fragment)
		c.store.UpdateMessage(h.SessionID, h.MessageID, buffer.String())
	}
}

// fallback makes exactly one degraded single-shot attempt. Either branch
// terminates the handle in the failed-fallback state with non-empty
// message content.
func (c *Controller) fallback(ctx context.Context, h *Handle, content string) {
	h.setState(StateFailedFallback)

	if text, ok := c.singleShot(ctx, h.SessionID, content); ok {
		c.store.UpdateMessage(h.SessionID, h.MessageID, text)
		return
	}
	if ctx.Err() != nil {
		h.setState(StateAborted)
		return
	}
	c.store.UpdateMessage(h.SessionID, h.MessageID, NetworkFailureApology)
	c.notifier.Notify(notification.Error("Message failed", "Could not reach the assistant. Please try again."))
}

// singleShot takes the first value of a fresh producer.
func (c *Controller) singleShot(ctx context.Context, sessionID, content string) (string, bool) {
	producer, err := c.transport.Produce(ctx, content, sessionID)
	if err != nil {
		return "", false
	}
	defer producer.Close()
	fragment, err := producer.Recv()
	if err != nil || strings.TrimSpace(fragment) == "" {
		return "", false
	}
	return fragment, true
}

// Stop cancels the live handle, if any, and clears both flags within the
// same step. Safe to call with nothing in flight.
func (c *Controller) Stop() {
	c.mu.Lock()
	h := c.active
	c.active = nil
	c.mu.Unlock()

	if h != nil {
		h.cancel()
		h.setState(StateAborted)
	}
	c.store.SetLoading(false)
	c.store.SetStreaming(false)
	c.notifier.Notify(notification.Info("Generation stopped", ""))
}

// finish releases the handle. Flags are reset only if this handle is still
// the live one, so a superseding send or an explicit Stop cannot be
// clobbered; each terminal path resets the flags exactly once.
func (c *Controller) finish(h *Handle) {
	h.cancel()

	c.mu.Lock()
	isActive := c.active == h
	if isActive {
		c.active = nil
	}
	c.mu.Unlock()

	if isActive {
		c.store.SetLoading(false)
		c.store.SetStreaming(false)
	}
	close(h.done)
}
