package llm

import (
	"context"
	"io"
	"sync"

	"github.com/liushuangls/go-anthropic/v2"
)

// AnthropicClient wraps the go-anthropic client.
type AnthropicClient struct {
	client *anthropic.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{client: anthropic.NewClient(apiKey)}
}

// anthropicStreamWrapper bridges the callback-based Anthropic stream into
// the pull-based Stream contract.
type anthropicStreamWrapper struct {
	ctx       context.Context
	tokens    chan string
	err       chan error
	closed    chan struct{}
	closeOnce sync.Once
}

// Close unblocks the producing callback. Safe to call more than once.
func (s *anthropicStreamWrapper) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// push hands a fragment to Recv. It gives up when the request is cancelled
// or the stream is closed, so the producing goroutine never stays blocked
// on a consumer that has stopped reading.
func (s *anthropicStreamWrapper) push(token string) {
	select {
	case s.tokens <- token:
	case <-s.ctx.Done():
	case <-s.closed:
	}
}

func (s *anthropicStreamWrapper) Recv() (*StreamEvent, error) {
	// Every fragment is buffered before the producing goroutine reports
	// termination, so tokens must win over a ready terminal error or the
	// tail of the response would be dropped.
	select {
	case token := <-s.tokens:
		return &StreamEvent{Token: token}, nil
	default:
	}
	select {
	case token := <-s.tokens:
		return &StreamEvent{Token: token}, nil
	case err := <-s.err:
		select {
		case token := <-s.tokens:
			s.err <- err // redeliver on the next call
			return &StreamEvent{Token: token}, nil
		default:
		}
		if err == nil {
			return nil, io.EOF
		}
		return nil, err
	}
}

func (c *AnthropicClient) CreateTextGeneration(ctx context.Context, request *CreateTextGenerationRequest) (Stream, error) {
	messages := make([]anthropic.Message, 0, len(request.Messages))
	for _, message := range request.Messages {
		switch message.Role {
		case UserRole, SystemRole:
			messages = append(messages, anthropic.NewUserTextMessage(message.Content))
		case AssistantRole:
			messages = append(messages, anthropic.NewAssistantTextMessage(message.Content))
		}
	}
	sw := &anthropicStreamWrapper{
		ctx:    ctx,
		tokens: make(chan string, 100),
		err:    make(chan error, 1),
		closed: make(chan struct{}),
	}
	anthropicRequest := anthropic.MessagesStreamRequest{
		MessagesRequest: anthropic.MessagesRequest{
			Model:     anthropic.Model(request.Model),
			Messages:  messages,
			MaxTokens: request.MaxTokens,
		},
		OnContentBlockDelta: func(data anthropic.MessagesEventContentBlockDeltaData) {
			if data.Delta.Text != nil {
				sw.push(*data.Delta.Text)
			}
		},
	}

	go func() {
		_, err := c.client.CreateMessagesStream(ctx, anthropicRequest)
		sw.err <- err
	}()
	return sw, nil
}
