// Package chat is the bubbletea chat surface. It is presentation only:
// every state transition goes through the orchestrator or the session
// store, and the store's change signal drives re-rendering.
package chat

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"

	engine "github.com/souschef-ai/souschef/internal/chat"
	"github.com/souschef-ai/souschef/internal/configuration"
	"github.com/souschef-ai/souschef/internal/debug"
	"github.com/souschef-ai/souschef/internal/history"
	"github.com/souschef-ai/souschef/internal/markdown"
	"github.com/souschef-ai/souschef/internal/notification"
	"github.com/souschef-ai/souschef/internal/session"
)

var log = debug.GetLogger()

// Messages for Bubble Tea
type (
	// stateChangedMsg is forwarded from the store's change signal.
	stateChangedMsg struct{}
	// notificationMsg carries an engine notification to the toast overlay.
	notificationMsg struct{ notification.Notification }
)

// Model is the Bubble Tea model for the chat surface.
type Model struct {
	ctx          context.Context
	config       *configuration.Config
	orchestrator *engine.Orchestrator
	store        *session.Store

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *markdown.Renderer
	alert    bubbleup.AlertModel

	// UI state
	width         int
	height        int
	ready         bool
	quitting      bool
	windowFocused bool

	// Input history
	history           *history.History
	historyNavigating bool

	// Program reference for sending messages from goroutines
	program   *tea.Program
	programMu sync.Mutex
}

// NewModel creates the chat model.
func NewModel(ctx context.Context, config *configuration.Config, orchestrator *engine.Orchestrator) (*Model, error) {
	ta := textarea.New()
	ta.Placeholder = "Ask about a recipe... (Ctrl+J to send, Ctrl+N new session, Ctrl+C to quit)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(defaultTextareaWidth)
	ta.SetHeight(minTextareaHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(true)
	ta.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	alert := bubbleup.NewAlertModel(25, true, 1)

	renderer, err := markdown.NewRenderer(defaultTextareaWidth)
	if err != nil {
		return nil, err
	}

	return &Model{
		ctx:           ctx,
		config:        config,
		orchestrator:  orchestrator,
		store:         orchestrator.Store(),
		textarea:      ta,
		spinner:       sp,
		alert:         *alert,
		renderer:      renderer,
		history:       history.NewHistory(),
		windowFocused: true,
	}, nil
}

// SetProgram sets the tea.Program reference for async message sending.
func (m *Model) SetProgram(p *tea.Program) {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	m.program = p
}

func (m *Model) getProgram() *tea.Program {
	m.programMu.Lock()
	defer m.programMu.Unlock()
	return m.program
}

// Notifier adapts the program into a notification sink so engine
// notifications surface as toasts.
func (m *Model) Notifier() notification.Notifier {
	return notification.Func(func(n notification.Notification) {
		if p := m.getProgram(); p != nil {
			p.Send(notificationMsg{n})
		}
	})
}

// StateChanged forwards the store's change signal into the program.
func (m *Model) StateChanged() {
	if p := m.getProgram(); p != nil {
		p.Send(stateChangedMsg{})
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.alert.Init(),
	)
}

func (m *Model) sendMessage() tea.Cmd {
	userInput := m.textarea.Value()
	m.history.Add(userInput)
	m.historyNavigating = false
	m.textarea.Reset()

	handle := m.orchestrator.SendMessage(m.ctx, userInput)
	if handle == nil {
		return nil
	}
	log.Debug("message sent", "session", handle.SessionID)
	m.viewport.GotoBottom()
	return m.spinner.Tick
}

// lastAssistantMessage returns the newest assistant message of the current
// session, if any.
func (m *Model) lastAssistantMessage() (*session.Message, bool) {
	current := m.store.Current()
	if current == nil {
		return nil, false
	}
	for i := len(current.Messages) - 1; i >= 0; i-- {
		if current.Messages[i].Role == session.RoleAssistant {
			return current.Messages[i], true
		}
	}
	return nil, false
}

// switchSession moves through the session list. offset +1 selects the next
// older session, -1 the next newer one.
func (m *Model) switchSession(offset int) {
	sessions := m.store.Sessions()
	if len(sessions) < 2 {
		return
	}
	currentID := m.store.CurrentID()
	index := 0
	for i, s := range sessions {
		if s.ID == currentID {
			index = i
			break
		}
	}
	index += offset
	if index < 0 || index >= len(sessions) {
		return
	}
	m.store.SwitchSession(sessions[index].ID)
}
