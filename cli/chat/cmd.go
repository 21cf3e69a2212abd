package chat

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	engine "github.com/souschef-ai/souschef/internal/chat"
	"github.com/souschef-ai/souschef/internal/configuration"
	"github.com/souschef-ai/souschef/internal/notification"
)

// NewCmd instantiates and returns the chat command.
func NewCmd(config *configuration.Config, orchestrator *engine.Orchestrator, forwarder *notification.Forwarder) *cobra.Command {
	var opts struct {
		SessionID  string
		NewSession bool
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive recipe chat",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := orchestrator.Store()

			if opts.SessionID != "" {
				store.SwitchSession(opts.SessionID)
				if store.CurrentID() == "" {
					return fmt.Errorf("unknown session %s", opts.SessionID)
				}
			} else if opts.NewSession {
				store.CreateSession("")
			}

			m, err := NewModel(ctx, config, orchestrator)
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				m,
				tea.WithAltScreen(),
				tea.WithContext(ctx),
				tea.WithMouseCellMotion(),
				tea.WithReportFocus(),
			)
			m.SetProgram(p)

			// Route engine signals into the program.
			forwarder.SetSink(m.Notifier())
			store.Subscribe(m.StateChanged)

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running chat: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.SessionID, "session", "", "resume a specific session id")
	cmd.Flags().BoolVarP(&opts.NewSession, "new", "n", false, "start a fresh session")
	return cmd
}
