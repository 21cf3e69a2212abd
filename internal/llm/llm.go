// Package llm is the model transport: a cancellable, chunked text
// generation contract with OpenAI-compatible and Anthropic backends.
package llm

import (
	"context"
	"fmt"

	"github.com/souschef-ai/souschef/internal/configuration"
)

// Message roles on the wire.
const (
	SystemRole    = "system"
	UserRole      = "user"
	AssistantRole = "assistant"
)

// Message is one turn sent to the model.
type Message struct {
	Role    string
	Content string
}

// CreateTextGenerationRequest describes one generation call.
type CreateTextGenerationRequest struct {
	Model       string
	Messages    []*Message
	MaxTokens   int
	Temperature float32
}

// StreamEvent is one incremental fragment of a response.
type StreamEvent struct {
	Token        string
	FinishReason string
}

// Stream yields StreamEvents until io.EOF or an error. Close releases the
// underlying connection; the producing loop also stops when the request
// context is cancelled.
type Stream interface {
	Recv() (*StreamEvent, error)
	Close()
}

// Client produces text generations.
type Client interface {
	CreateTextGeneration(context.Context, *CreateTextGenerationRequest) (Stream, error)
}

// NewClient selects a backend from the configuration.
func NewClient(config *configuration.Config) (Client, error) {
	switch config.Provider {
	case "", configuration.ProviderOpenAI:
		return NewOpenAIClient(config.APIKey, config.APIHost), nil
	case configuration.ProviderAnthropic:
		return NewAnthropicClient(config.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown provider (%s)", config.Provider)
	}
}
