package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient speaks to any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(apiKey, apiHost string) *OpenAIClient {
	openAIConfig := openai.DefaultConfig(apiKey)
	if apiHost != "" {
		openAIConfig.BaseURL = apiHost
	}
	client := openai.NewClientWithConfig(openAIConfig)
	return &OpenAIClient{client: client}
}

type chatCompletionStreamWrapper struct {
	stream *openai.ChatCompletionStream
}

func (s *chatCompletionStreamWrapper) Close() { s.stream.Close() }
func (s *chatCompletionStreamWrapper) Recv() (*StreamEvent, error) {
	response, err := s.stream.Recv()
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("ChatCompletionResponse returned no choice: %+v", response)
	}
	return &StreamEvent{
		Token:        response.Choices[0].Delta.Content,
		FinishReason: string(response.Choices[0].FinishReason),
	}, nil
}

func (c *OpenAIClient) CreateTextGeneration(ctx context.Context, request *CreateTextGenerationRequest) (Stream, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(request.Messages))
	for _, message := range request.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Content: message.Content, Role: message.Role})
	}
	openAIRequest := openai.ChatCompletionRequest{
		Model:       request.Model,
		MaxTokens:   request.MaxTokens,
		Temperature: request.Temperature,
		Stream:      true,
		Messages:    messages,
	}
	stream, err := c.client.CreateChatCompletionStream(ctx, openAIRequest)
	if err != nil {
		return nil, fmt.Errorf("creating completion stream: %v", err)
	}
	return &chatCompletionStreamWrapper{stream}, nil
}
