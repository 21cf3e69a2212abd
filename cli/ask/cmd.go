// Package ask holds the one-shot query command. It talks to the model
// directly and never touches the session store.
package ask

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/souschef-ai/souschef/cli"
	"github.com/souschef-ai/souschef/internal/configuration"
	"github.com/souschef-ai/souschef/internal/llm"
)

// NewCmd instantiates and returns the ask command.
func NewCmd(config *configuration.Config, client llm.Client) *cobra.Command {
	var opts struct {
		Model string
	}
	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask a one-shot cooking question",
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				var err error
				question, err = cli.PromptUser()
				if err != nil {
					return err
				}
				question = strings.TrimSpace(question)
			}
			if question == "" {
				return nil
			}

			model := opts.Model
			if model == "" {
				model = config.Chat.DefaultModel
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(config.RequestTimeout)*time.Second)
			defer cancel()
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			messages := []*llm.Message{}
			if config.Chat.SystemPrompt != "" {
				messages = append(messages, &llm.Message{Role: llm.SystemRole, Content: config.Chat.SystemPrompt})
			}
			messages = append(messages, &llm.Message{Role: llm.UserRole, Content: question})

			stream, err := client.CreateTextGeneration(ctx, &llm.CreateTextGenerationRequest{
				Model:       model,
				Messages:    messages,
				MaxTokens:   config.Chat.MaxTokens,
				Temperature: config.Chat.Temperature,
			})
			if err != nil {
				return errors.Wrap(err, "starting generation")
			}
			defer stream.Close()

			for {
				event, err := stream.Recv()
				if errors.Is(err, io.EOF) || ctx.Err() != nil {
					break
				}
				if err != nil {
					return errors.Wrap(err, "reading stream")
				}
				cli.AssistantOutput(event.Token)
			}
			cli.AssistantOutput("\n")
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "Model to use")
	return cmd
}
