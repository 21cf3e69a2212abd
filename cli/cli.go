// Package cli holds the line-mode output helpers shared by the non-TUI
// commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/buger/goterm"
	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/souschef-ai/souschef/internal/notification"
)

var (
	// Colors for different types of output
	userInputColor   = color.New(color.FgWhite)
	assistantColor   = color.New(color.FgCyan)
	titleColor       = color.New(color.FgMagenta, color.Bold)
	separatorColor   = color.New(color.FgHiBlack)
	sessionColor     = color.New(color.FgGreen)
	noticeInfoColor  = color.New(color.FgYellow)
	noticeErrorColor = color.New(color.FgRed, color.Bold)
	promptColor      = color.New(color.FgHiBlue)
	timestampColor   = color.New(color.FgHiBlack)

	width = goterm.Width()
)

// Separator printed to cli.
func Separator() {
	separatorColor.Println(strings.Repeat("-", width))
}

// Title printed to cli. On terminals narrower than the title the padding
// collapses to nothing instead of going negative.
func Title(text string, args ...any) {
	title := "      " + fmt.Sprintf(text, args...) + "      "
	leftWidth := (width - len(title)) / 2
	if leftWidth < 0 {
		leftWidth = 0
	}
	rightWidth := width - len(title) - leftWidth
	if rightWidth < 0 {
		rightWidth = 0
	}
	titleColor.Println(strings.Repeat("-", leftWidth) + title + strings.Repeat("-", rightWidth))
}

// UserInput printed to cli.
func UserInput(text string, args ...any) {
	userInputColor.Printf(text, args...)
}

// AssistantOutput printed to cli. Streamed fragments may contain percent
// signs, so they are escaped before formatting.
func AssistantOutput(text string, args ...any) {
	text = strings.ReplaceAll(text, "%", "%%")
	assistantColor.Printf(text, args...)
}

// SessionInfo printed to cli.
func SessionInfo(text string, args ...any) {
	sessionColor.Printf(text, args...)
}

// Timestamp printed to cli.
func Timestamp(text string, args ...any) {
	timestampColor.Printf(text, args...)
}

// Notifier returns a notification sink that prints to the terminal, for the
// commands that have no toast surface.
func Notifier() notification.Notifier {
	return notification.Func(func(n notification.Notification) {
		line := n.Title
		if n.Message != "" {
			line += ": " + n.Message
		}
		if n.Kind == notification.KindError {
			noticeErrorColor.Println(line)
			return
		}
		noticeInfoColor.Println(line)
	})
}

// PromptUser reads a multi-line prompt. Ctrl+J submits.
func PromptUser() (string, error) {
	exit := false
	config := &readline.Config{
		Prompt:            promptColor.Sprint("> "),
		InterruptPrompt:   "^C",
		HistoryFile:       "/tmp/souschef.history",
		HistorySearchFold: true,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			if r == '\x0A' { // Ctrl + J
				exit = true
			}
			return r, true
		},
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return "", err
	}
	defer rl.Close()
	var lines []string
	for {
		line, err := rl.Readline()
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
		if err == readline.ErrInterrupt || exit {
			break
		}
		rl.SetPrompt("")
	}
	return strings.Join(lines, "\n"), nil
}

// QueryUser a yes/no question.
func QueryUser(question string) bool {
	surveyQuestion := &survey.Confirm{
		Message: question,
	}
	confirm := false
	survey.AskOne(surveyQuestion, &confirm)
	return confirm
}
