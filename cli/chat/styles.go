package chat

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	minTextareaHeight    = 3
	maxTextareaHeight    = 20
	defaultTextareaWidth = 80
	minViewportHeight    = 1

	inputBorderHeight  = 2
	headerHeight       = 2
	messagePaddingLeft = 2
)

var (
	messageHorizontalFrameSize = assistantMessageStyle.GetHorizontalFrameSize()

	// Color palette
	primaryColor   = lipgloss.Color("#EA580C") // Burnt orange
	secondaryColor = lipgloss.Color("#10B981") // Herb green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	textColor      = lipgloss.Color("#F9FAFB") // Light gray
	messageColor   = lipgloss.Color("#E5E7EB")

	// Title bar style
	titleStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(textColor).
			Bold(true)

	// User message bubble
	userMessageStyle = lipgloss.NewStyle().
				Foreground(textColor).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1).
				MarginLeft(10)

	// Assistant message bubble
	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(messageColor).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(secondaryColor).
				Padding(0, 1).
				MarginRight(10)

	// Metadata under assistant messages (related recipes, suggestions)
	metadataStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Italic(true).
			PaddingLeft(messagePaddingLeft)

	// Feedback marker
	feedbackStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			PaddingLeft(messagePaddingLeft)

	// Input area
	textAreaStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			PaddingLeft(1)

	// Spinner
	spinnerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	// Help text
	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// Viewport wrapper
	viewportStyle = lipgloss.NewStyle().Margin(0).Padding(0)
)
