package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/souschef-ai/souschef/internal/session"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")

	b.WriteString(viewportStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.store.Loading() {
		b.WriteString(fmt.Sprintf("%s Cooking up a response... (Ctrl+C to stop)\n", m.spinner.View()))
	} else {
		b.WriteString(textAreaStyle.Render(m.textarea.View()))
		b.WriteString("\n")
	}

	return m.alert.Render(b.String())
}

func (m *Model) renderTitle() string {
	sessions := m.store.Sessions()
	position := 1
	title := "new session"
	currentID := m.store.CurrentID()
	for i, s := range sessions {
		if s.ID == currentID {
			position = i + 1
			if s.Title != "" {
				title = s.Title
			}
			break
		}
	}
	count := len(sessions)
	if count == 0 {
		count = 1
	}

	bar := fmt.Sprintf(" 🍳 souschef │ %s │ %d/%d │ %s ",
		title, position, count, m.config.Chat.DefaultModel)
	return titleStyle.Width(m.width).Render(bar)
}

func (m *Model) renderMessages() string {
	current := m.store.Current()
	if current == nil || len(current.Messages) == 0 {
		return helpStyle.Render("Ask me anything about cooking. Ctrl+J sends your message.")
	}

	streaming := m.store.Streaming()
	var b strings.Builder
	for i, msg := range current.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case session.RoleUser:
			rendered := m.renderer.Message(msg.ID, msg.Content, true)
			b.WriteString(userMessageStyle.Render(rendered))

		case session.RoleAssistant:
			// The trailing assistant message is live while a stream is
			// folding into it.
			finalized := !streaming || i != len(current.Messages)-1
			rendered := m.renderer.Message(msg.ID, msg.Content, finalized)
			b.WriteString(assistantMessageStyle.Render(rendered))
			if !finalized {
				b.WriteString(spinnerStyle.Render("▋"))
			}

			for _, entry := range msg.Metadata {
				if line := renderMetadata(entry); line != "" {
					b.WriteString("\n")
					b.WriteString(metadataStyle.Render(line))
				}
			}
			switch msg.Feedback {
			case session.FeedbackHelpful:
				b.WriteString("\n")
				b.WriteString(feedbackStyle.Render("👍 marked helpful"))
			case session.FeedbackUnhelpful:
				b.WriteString("\n")
				b.WriteString(feedbackStyle.Render("👎 marked unhelpful"))
			}
		}
	}
	return b.String()
}

func renderMetadata(entry session.MetadataEntry) string {
	switch entry.Kind {
	case session.MetadataRelatedRecipes:
		if len(entry.RelatedRecipes) == 0 {
			return ""
		}
		titles := make([]string, len(entry.RelatedRecipes))
		for i, ref := range entry.RelatedRecipes {
			titles[i] = ref.Title
		}
		return "📖 Related: " + strings.Join(titles, ", ")
	case session.MetadataSuggestions:
		if len(entry.Suggestions) == 0 {
			return ""
		}
		return "💡 Try asking: " + strings.Join(entry.Suggestions, " · ")
	case session.MetadataContext:
		if entry.Context == "" {
			return ""
		}
		return "🔍 " + entry.Context
	}
	return ""
}

// adjustTextareaHeight resizes the textarea based on content line count.
func (m *Model) adjustTextareaHeight() {
	content := m.textarea.Value()
	lineCount := strings.Count(content, "\n") + 1

	newHeight := lineCount
	if newHeight < minTextareaHeight {
		newHeight = minTextareaHeight
	}
	if newHeight > maxTextareaHeight {
		newHeight = maxTextareaHeight
	}

	oldHeight := m.textarea.Height()
	if oldHeight != newHeight {
		m.textarea.SetHeight(newHeight)
		heightDiff := newHeight - oldHeight
		m.recalculateLayout()
		if heightDiff != 0 && m.ready {
			m.viewport.LineDown(heightDiff)
		}
	}
}

// recalculateLayout adjusts viewport and textarea dimensions.
func (m *Model) recalculateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	viewportHeight := m.height - headerHeight
	viewportHeight -= m.textarea.Height() + inputBorderHeight
	if viewportHeight < minViewportHeight {
		viewportHeight = minViewportHeight
	}
	viewportWidth := m.width

	m.renderer.SetWidth(viewportWidth - messageHorizontalFrameSize)

	if !m.ready {
		m.viewport = viewport.New(viewportWidth, viewportHeight)
		m.ready = true
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom() // Only on initial render
	} else {
		m.viewport.Width = viewportWidth
		m.viewport.Height = viewportHeight
		m.viewport.SetContent(m.renderMessages())
	}

	m.textarea.SetWidth(viewportWidth - textAreaStyle.GetHorizontalPadding() - textAreaStyle.GetHorizontalBorderSize())
}
