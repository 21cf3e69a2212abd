package markdown

import (
	"regexp"
	"strings"
)

var (
	// Matches fenced code blocks. Group 1 is the language, group 2 the code.
	codeBlockRegexp = regexp.MustCompile("(?sm)^```([a-zA-Z]*)\\n(.*?)^```")
)

// Block is a parsed segment of assistant output.
type Block interface {
	md() string
	Content() string
}

// TextBlock is plain prose.
type TextBlock struct {
	Text string
}

func (b *TextBlock) md() string      { return b.Text }
func (b *TextBlock) Content() string { return b.Text }

// CodeBlock is a fenced code block with an optional language tag.
type CodeBlock struct {
	language string
	code     string
}

func (b *CodeBlock) md() string {
	return "```" + b.language + "\n" + b.code + "\n```"
}

func (b *CodeBlock) Content() string { return b.code }

// ParseBlocks splits markdown content into alternating text and code blocks.
func ParseBlocks(content string) []Block {
	var result []Block

	matches := codeBlockRegexp.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		if content != "" {
			result = append(result, &TextBlock{Text: content})
		}
		return result
	}

	lastEnd := 0
	for _, match := range matches {
		fullStart, fullEnd := match[0], match[1]
		langStart, langEnd := match[2], match[3]
		codeStart, codeEnd := match[4], match[5]

		if fullStart > lastEnd {
			if text := content[lastEnd:fullStart]; text != "" {
				result = append(result, &TextBlock{Text: text})
			}
		}

		var language string
		if langStart >= 0 && langEnd >= 0 {
			language = content[langStart:langEnd]
		}
		if language == "" {
			language = "md"
		}

		var code string
		if codeStart >= 0 && codeEnd >= 0 {
			code = content[codeStart:codeEnd]
		}

		result = append(result, &CodeBlock{
			language: language,
			code:     strings.ReplaceAll(strings.Trim(code, "\n"), "\t", "  "), // tabs cause issues.
		})

		lastEnd = fullEnd
	}

	if lastEnd < len(content) {
		if text := content[lastEnd:]; text != "" {
			result = append(result, &TextBlock{Text: text})
		}
	}

	return result
}
