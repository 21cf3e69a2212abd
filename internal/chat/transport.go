package chat

import (
	"context"
	"strings"

	"github.com/souschef-ai/souschef/internal/configuration"
	"github.com/souschef-ai/souschef/internal/llm"
	"github.com/souschef-ai/souschef/internal/session"
	"github.com/souschef-ai/souschef/internal/streaming"
)

// llmTransport adapts the model client to the streaming transport
// contract: system prompt plus session history, keyed by session id.
type llmTransport struct {
	client llm.Client
	store  *session.Store
	chat   *configuration.ChatConfig
	model  string
}

// NewTransport builds the transport used by the streaming controller.
// model overrides the configured default when non-empty.
func NewTransport(client llm.Client, store *session.Store, chat *configuration.ChatConfig, model string) streaming.Transport {
	if model == "" {
		model = chat.DefaultModel
	}
	return &llmTransport{client: client, store: store, chat: chat, model: model}
}

func (t *llmTransport) Produce(ctx context.Context, content, sessionID string) (streaming.Producer, error) {
	messages := []*llm.Message{}
	if t.chat.SystemPrompt != "" {
		messages = append(messages, &llm.Message{Role: llm.SystemRole, Content: t.chat.SystemPrompt})
	}

	// Empty-content messages are in-flight placeholders; they never reach
	// the model.
	if sess, ok := t.store.Session(sessionID); ok {
		for _, msg := range sess.Messages {
			if strings.TrimSpace(msg.Content) == "" {
				continue
			}
			messages = append(messages, &llm.Message{Role: string(msg.Role), Content: msg.Content})
		}
	}

	// Regeneration reruns a past user turn; make sure it is the trailing
	// message even when history has moved on.
	if last := len(messages) - 1; last < 0 || messages[last].Role != llm.UserRole || messages[last].Content != content {
		messages = append(messages, &llm.Message{Role: llm.UserRole, Content: content})
	}

	stream, err := t.client.CreateTextGeneration(ctx, &llm.CreateTextGenerationRequest{
		Model:       t.model,
		Messages:    messages,
		MaxTokens:   t.chat.MaxTokens,
		Temperature: t.chat.Temperature,
	})
	if err != nil {
		return nil, err
	}
	return &tokenProducer{stream: stream}, nil
}

// tokenProducer narrows an llm.Stream to text fragments.
type tokenProducer struct {
	stream llm.Stream
}

func (p *tokenProducer) Close() { p.stream.Close() }

func (p *tokenProducer) Recv() (string, error) {
	event, err := p.stream.Recv()
	if err != nil {
		return "", err
	}
	return event.Token, nil
}
