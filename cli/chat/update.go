package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"go.dalton.dog/bubbleup"

	"github.com/souschef-ai/souschef/internal/notification"
	"github.com/souschef-ai/souschef/internal/session"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Always update the alert model with every message
	outAlert, alertCmd := m.alert.Update(msg)
	m.alert = outAlert.(bubbleup.AlertModel)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	switch msg := msg.(type) {
	case tea.FocusMsg:
		m.windowFocused = true
		m.textarea.Focus()
		cmds = append(cmds, textarea.Blink)
		return m, tea.Batch(cmds...)

	case tea.BlurMsg:
		m.windowFocused = false
		m.textarea.Blur()
		return m, nil

	case tea.KeyMsg:
		busy := m.store.Loading() || m.store.Streaming()

		// History navigation (Alt)
		if msg.Alt && !busy {
			switch msg.String() {
			case "alt+p":
				if entry, ok := m.history.Previous(m.textarea.Value()); ok {
					m.textarea.SetValue(entry)
					m.historyNavigating = true
					m.adjustTextareaHeight()
					return m, nil
				}
			case "alt+n":
				if entry, ok := m.history.Next(); ok {
					m.textarea.SetValue(entry)
					m.historyNavigating = true
					m.adjustTextareaHeight()
					return m, nil
				}
			}
		}

		// Feedback on the newest assistant message.
		switch msg.String() {
		case "alt+h", "alt+u":
			if target, ok := m.lastAssistantMessage(); ok && !busy {
				kind := session.FeedbackHelpful
				if msg.String() == "alt+u" {
					kind = session.FeedbackUnhelpful
				}
				m.orchestrator.ProvideFeedback(target.ID, kind)
				return m, nil
			}
		}

		switch msg.Type {
		case tea.KeyCtrlC:
			if busy {
				m.orchestrator.StopGeneration()
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case tea.KeyCtrlJ:
			if !busy && strings.TrimSpace(m.textarea.Value()) != "" {
				return m, m.sendMessage()
			}

		case tea.KeyCtrlN:
			if !busy {
				m.store.CreateSession("")
				m.textarea.Reset()
				return m, nil
			}

		case tea.KeyCtrlP:
			if !busy {
				m.switchSession(1)
				return m, nil
			}

		case tea.KeyCtrlO:
			if !busy {
				m.switchSession(-1)
				return m, nil
			}

		case tea.KeyCtrlR:
			if target, ok := m.lastAssistantMessage(); ok && !busy {
				m.orchestrator.RegenerateResponse(m.ctx, target.ID)
				return m, m.spinner.Tick
			}

		case tea.KeyCtrlY:
			if target, ok := m.lastAssistantMessage(); ok {
				m.orchestrator.CopyMessage(target.Content)
				return m, nil
			}

		case tea.KeyEnter:
			if m.historyNavigating {
				m.history.Reset()
				m.historyNavigating = false
			}
		}

		// Reset history navigation on edits.
		if !busy && m.historyNavigating {
			switch msg.Type {
			case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
				m.history.Reset()
				m.historyNavigating = false
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()

	case stateChangedMsg:
		wasAtBottom := m.viewport.AtBottom()
		m.viewport.SetContent(m.renderMessages())
		if wasAtBottom {
			m.viewport.GotoBottom()
		}
		return m, nil

	case notificationMsg:
		key := bubbleup.InfoKey
		switch msg.Kind {
		case notification.KindError:
			key = bubbleup.ErrorKey
		case notification.KindWarning:
			key = bubbleup.WarnKey
		}
		text := msg.Title
		if msg.Message != "" {
			text += ": " + msg.Message
		}
		cmds = append(cmds, m.alert.NewAlertCmd(key, text))
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Update textarea while not generating.
	if !m.store.Loading() && !m.store.Streaming() {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.adjustTextareaHeight()
	}

	// Update viewport - but don't pass conflicting key messages when the
	// textarea has focus.
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.store.Loading() || m.store.Streaming() {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			switch msg.String() {
			case "j", "k", "g", "G", "u", "d", "b", "ctrl+u", "ctrl+d", "f", " ":
			// Don't pass vim navigation keys to viewport while typing
			default:
				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}
