// Package sessions holds the line-mode session management commands.
package sessions

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/souschef-ai/souschef/cli"
	"github.com/souschef-ai/souschef/internal/session"
)

// NewCmd instantiates and returns the sessions command tree.
func NewCmd(store *session.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage chat sessions",
	}
	cmd.AddCommand(newListCmd(store))
	cmd.AddCommand(newRenameCmd(store))
	cmd.AddCommand(newDeleteCmd(store))
	return cmd
}

func newListCmd(store *session.Store) *cobra.Command {
	var opts struct {
		Limit int
	}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, most recent first",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			cli.Title("SOUSCHEF SESSIONS")

			sessions := store.Sessions()
			if len(sessions) == 0 {
				cli.SessionInfo("no sessions yet\n")
				return
			}
			currentID := store.CurrentID()
			for i, s := range sessions {
				if opts.Limit > 0 && i >= opts.Limit {
					break
				}
				if i > 0 {
					cli.Separator()
				}
				marker := "  "
				if s.ID == currentID {
					marker = "* "
				}
				title := s.Title
				if title == "" {
					title = "(untitled)"
				}
				cli.SessionInfo("%s%s (%s)\n", marker, title, s.ID)
				cli.Timestamp("  updated %s, %d messages\n", s.UpdatedAt.Format(time.RFC822), len(s.Messages))
				for _, msg := range s.Messages {
					if msg.Role == session.RoleUser {
						cli.UserInput("  > %s\n", firstLine(msg.Content))
						break
					}
				}
			}
		},
	}
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "Maximum sessions to show")
	return cmd
}

func newRenameCmd(store *session.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <session-id> <title>",
		Short: "Rename a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, title := args[0], args[1]
			if _, ok := store.Session(id); !ok {
				return fmt.Errorf("unknown session %s", id)
			}
			store.RenameSession(id, title)
			cli.SessionInfo("renamed session %s\n", id)
			return nil
		},
	}
}

func newDeleteCmd(store *session.Store) *cobra.Command {
	var opts struct {
		Force bool
	}
	cmd := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			target, ok := store.Session(id)
			if !ok {
				return fmt.Errorf("unknown session %s", id)
			}
			if !opts.Force {
				title := target.Title
				if title == "" {
					title = id
				}
				if !cli.QueryUser(fmt.Sprintf("Delete session %q and its %d messages?", title, len(target.Messages))) {
					return nil
				}
			}
			store.DeleteSession(id)
			cli.SessionInfo("deleted session %s\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Skip confirmation")
	return cmd
}

func firstLine(content string) string {
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		return content[:i]
	}
	return content
}
