package chat

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souschef-ai/souschef/internal/notification"
	"github.com/souschef-ai/souschef/internal/session"
	"github.com/souschef-ai/souschef/internal/streaming"
)

// echoProducer yields a single fixed fragment.
type echoProducer struct {
	text string
	done bool
}

func (p *echoProducer) Close() {}
func (p *echoProducer) Recv() (string, error) {
	if p.done {
		return "", io.EOF
	}
	p.done = true
	return p.text, nil
}

type echoTransport struct {
	mu    sync.Mutex
	text  string
	calls int
}

func (t *echoTransport) Produce(ctx context.Context, content, sessionID string) (streaming.Producer, error) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return &echoProducer{text: t.text}, nil
}

func (t *echoTransport) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) Write(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func newTestOrchestrator(transport streaming.Transport, notifier notification.Notifier, clip Clipboard) *Orchestrator {
	store := session.NewStore()
	controller := streaming.NewController(store, transport, notifier)
	return NewOrchestrator(store, controller, notifier, clip)
}

func waitDone(t *testing.T, h *streaming.Handle) {
	t.Helper()
	require.NotNil(t, h)
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("handle did not terminate")
	}
}

func TestSendMessageRoundTrip(t *testing.T) {
	transport := &echoTransport{text: "Use fresh basil."}
	o := newTestOrchestrator(transport, nil, nil)

	h := o.SendMessage(context.Background(), "how do I improve my pesto?")
	waitDone(t, h)

	sess := o.Store().Current()
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "Use fresh basil.", sess.Messages[1].Content)
}

func TestRegenerateRewritesSameMessage(t *testing.T) {
	transport := &echoTransport{text: "first answer"}
	o := newTestOrchestrator(transport, nil, nil)

	h := o.SendMessage(context.Background(), "what is a beurre blanc?")
	waitDone(t, h)

	sess := o.Store().Current()
	targetID := sess.Messages[1].ID

	transport.mu.Lock()
	transport.text = "second answer"
	transport.mu.Unlock()

	h = o.RegenerateResponse(context.Background(), targetID)
	waitDone(t, h)

	sess = o.Store().Current()
	// Same message id, new content, no extra messages.
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, targetID, sess.Messages[1].ID)
	assert.Equal(t, "second answer", sess.Messages[1].Content)
}

func TestRegenerateRequiresAssistantTarget(t *testing.T) {
	transport := &echoTransport{text: "answer"}
	o := newTestOrchestrator(transport, nil, nil)

	h := o.SendMessage(context.Background(), "hello")
	waitDone(t, h)
	calls := transport.callCount()

	sess := o.Store().Current()
	userID := sess.Messages[0].ID

	assert.Nil(t, o.RegenerateResponse(context.Background(), userID))
	assert.Equal(t, calls, transport.callCount())
}

func TestRegenerateRequiresPrecedingUserMessage(t *testing.T) {
	transport := &echoTransport{text: "answer"}
	o := newTestOrchestrator(transport, nil, nil)

	store := o.Store()
	id := store.CreateSession("seeded")
	// A session starting with an assistant message: its first message has
	// no preceding user turn, and the second is preceded by an assistant.
	firstID, _ := store.AddMessage(id, session.RoleAssistant, "welcome!", nil)
	secondID, _ := store.AddMessage(id, session.RoleAssistant, "still me", nil)

	assert.Nil(t, o.RegenerateResponse(context.Background(), firstID))
	assert.Nil(t, o.RegenerateResponse(context.Background(), secondID))
	assert.Equal(t, 0, transport.callCount())

	// Content untouched.
	sess, _ := store.Session(id)
	assert.Equal(t, "welcome!", sess.Messages[0].Content)
	assert.Equal(t, "still me", sess.Messages[1].Content)
}

func TestRegenerateUnknownMessage(t *testing.T) {
	transport := &echoTransport{text: "answer"}
	o := newTestOrchestrator(transport, nil, nil)
	o.Store().CreateSession("")

	assert.Nil(t, o.RegenerateResponse(context.Background(), "missing"))
	assert.Equal(t, 0, transport.callCount())
}

func TestStopGenerationResetsFlags(t *testing.T) {
	o := newTestOrchestrator(&echoTransport{}, notification.Nop, nil)
	store := o.Store()
	store.SetLoading(true)
	store.SetStreaming(true)

	o.StopGeneration()
	assert.False(t, store.Loading())
	assert.False(t, store.Streaming())
}

func TestCopyMessage(t *testing.T) {
	var mu sync.Mutex
	var notes []notification.Notification
	notifier := notification.Func(func(n notification.Notification) {
		mu.Lock()
		notes = append(notes, n)
		mu.Unlock()
	})

	clip := &fakeClipboard{}
	o := newTestOrchestrator(&echoTransport{}, notifier, clip)

	o.CopyMessage("ingredient list")
	assert.Equal(t, "ingredient list", clip.text)

	clip.err = errors.New("display unavailable")
	o.CopyMessage("nope")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, notes, 2)
	assert.Equal(t, notification.KindSuccess, notes[0].Kind)
	assert.Equal(t, notification.KindError, notes[1].Kind)
}

func TestProvideFeedback(t *testing.T) {
	var mu sync.Mutex
	var notes []notification.Notification
	notifier := notification.Func(func(n notification.Notification) {
		mu.Lock()
		notes = append(notes, n)
		mu.Unlock()
	})
	o := newTestOrchestrator(&echoTransport{text: "answer"}, notifier, nil)

	h := o.SendMessage(context.Background(), "question")
	waitDone(t, h)

	sess := o.Store().Current()
	assistantID := sess.Messages[1].ID

	o.ProvideFeedback(assistantID, session.FeedbackHelpful)
	sess = o.Store().Current()
	assert.Equal(t, session.FeedbackHelpful, sess.Messages[1].Feedback)

	// Unknown ids record nothing and stay silent.
	before := func() int { mu.Lock(); defer mu.Unlock(); return len(notes) }()
	o.ProvideFeedback("missing", session.FeedbackUnhelpful)
	after := func() int { mu.Lock(); defer mu.Unlock(); return len(notes) }()
	assert.Equal(t, before, after)
}
