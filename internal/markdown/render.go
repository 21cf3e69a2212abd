// Package markdown renders assistant output for the terminal with glamour.
// Finalized messages are cached by id; the message currently streaming is
// rendered incrementally so complete lines get full markdown treatment while
// the trailing partial line stays plain text.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Renderer handles markdown rendering with syntax highlighting.
type Renderer struct {
	glamour *glamour.TermRenderer
	width   int

	messageCache map[string]string
	blockCache   map[string]string

	liveBlockKey        string
	liveBlockLineOffset int
	liveBlockCache      string
}

// NewRenderer creates a renderer wrapping at the given width.
func NewRenderer(width int) (*Renderer, error) {
	gr, err := glamour.NewTermRenderer(
		glamour.WithStyles(customStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		glamour:      gr,
		width:        width,
		messageCache: map[string]string{},
		blockCache:   map[string]string{},
	}, nil
}

// Message renders a whole message. messageID keys the cache; finalized marks
// the content complete so the result can be cached and the last block no
// longer rendered incrementally.
func (r *Renderer) Message(messageID, content string, finalized bool) string {
	if md, ok := r.messageCache[messageID]; ok {
		return md
	}

	blocks := ParseBlocks(content)
	var sb strings.Builder
	for i, block := range blocks {
		blockKey := fmt.Sprintf("%s/%d", messageID, i)
		if md, ok := r.blockCache[blockKey]; ok {
			sb.WriteString(md)
			if i < len(blocks)-1 {
				sb.WriteString("\n")
			}
			continue
		}

		var md string
		if !finalized && i == len(blocks)-1 {
			md = r.renderLiveBlock(block, blockKey)
		} else {
			md = r.renderBlock(block.md())
			r.blockCache[blockKey] = md
		}
		sb.WriteString(md)

		if i < len(blocks)-1 {
			sb.WriteString("\n")
		}
	}

	result := sb.String()
	if finalized {
		r.messageCache[messageID] = result
	}
	return result
}

// SetWidth rebuilds the renderer at a new wrap width. Caches are dropped
// since rendered output is width-dependent.
func (r *Renderer) SetWidth(width int) error {
	if r.width == width {
		return nil
	}
	rebuilt, err := NewRenderer(width)
	if err != nil {
		return err
	}
	*r = *rebuilt
	return nil
}

// renderLiveBlock renders the block currently receiving fragments. Complete
// lines are re-rendered whenever a newline arrives; the trailing partial line
// is appended as plain text.
func (r *Renderer) renderLiveBlock(block Block, blockKey string) string {
	if r.liveBlockKey != blockKey {
		r.liveBlockKey = blockKey
		r.liveBlockLineOffset = 0
		r.liveBlockCache = ""
	}

	var content, language string
	var isCode bool
	switch b := block.(type) {
	case *TextBlock:
		content = b.Text
	case *CodeBlock:
		content = b.code
		language = b.language
		isCode = true
	default:
		return r.liveBlockCache
	}
	if content == "" {
		return r.liveBlockCache
	}

	lines := strings.Split(content, "\n")
	completeLines := len(lines) - 1

	if completeLines > r.liveBlockLineOffset {
		completeContent := strings.Join(lines[:completeLines], "\n")
		if completeContent != "" {
			toRender := completeContent
			if isCode {
				toRender = "```" + language + "\n" + completeContent + "\n```"
			}
			r.liveBlockCache = strings.TrimSuffix(r.renderBlock(toRender), "\n")
		}
		r.liveBlockLineOffset = completeLines
	}

	partial := lines[len(lines)-1]
	if partial == "" {
		return r.liveBlockCache
	}
	if r.liveBlockCache == "" {
		return partial
	}
	return r.liveBlockCache + "\n" + partial
}

func (r *Renderer) renderBlock(content string) string {
	rendered, err := r.glamour.Render(content)
	if err != nil {
		// Fall back to plain text.
		return content
	}
	return strings.Trim(rendered, "\n")
}

// customStyle trims the margins glamour adds so messages sit flush inside
// their bubbles.
func customStyle() ansi.StyleConfig {
	style := styles.DraculaStyleConfig
	zero := uint(0)
	style.Document.Margin = &zero
	style.CodeBlock.Margin = &zero
	style.CodeBlock.Indent = &zero
	style.CodeBlock.Prefix = ""
	style.CodeBlock.BlockPrefix = ""

	style.Code.Margin = &zero
	style.Code.Indent = &zero
	style.Code.Prefix = ""
	style.Code.Suffix = ""

	style.Paragraph.BlockPrefix = ""
	style.Paragraph.BlockSuffix = ""

	return style
}
