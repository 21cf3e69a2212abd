package main

import (
	"github.com/spf13/cobra"

	"github.com/souschef-ai/souschef/cli"
	"github.com/souschef-ai/souschef/cli/ask"
	chatcli "github.com/souschef-ai/souschef/cli/chat"
	"github.com/souschef-ai/souschef/cli/sessions"
	"github.com/souschef-ai/souschef/internal/chat"
	"github.com/souschef-ai/souschef/internal/configuration"
	"github.com/souschef-ai/souschef/internal/llm"
	"github.com/souschef-ai/souschef/internal/notification"
	"github.com/souschef-ai/souschef/internal/persistence"
	"github.com/souschef-ai/souschef/internal/recipes"
	"github.com/souschef-ai/souschef/internal/session"
	"github.com/souschef-ai/souschef/internal/streaming"
)

const configFilepath = "~/.souschef/config.json"

var rootCmd = &cobra.Command{
	Use:   "souschef",
	Short: "A terminal recipe assistant",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	cobra.CheckErr(err)

	adapter, err := persistence.Open(config.StatePath)
	cobra.CheckErr(err)
	defer adapter.Close()

	snapshot, err := adapter.Load()
	cobra.CheckErr(err)

	// Line-mode commands print notifications; the chat TUI swaps in its
	// toast sink when it takes over the terminal.
	forwarder := notification.NewForwarder()
	forwarder.SetSink(cli.Notifier())

	store := session.NewStore()
	recipeState := recipes.NewState(forwarder)
	persistence.Apply(snapshot, store, recipeState)

	client, err := llm.NewClient(config)
	cobra.CheckErr(err)

	transport := chat.NewTransport(client, store, config.Chat, "")
	controller := streaming.NewController(store, transport, forwarder)
	orchestrator := chat.NewOrchestrator(store, controller, forwarder, &chatcli.SystemClipboard{})

	autosaver := persistence.NewAutosaver(adapter, func() *persistence.Snapshot {
		return persistence.Capture(store, recipeState)
	}, persistence.DefaultDebounce)
	store.Subscribe(autosaver.Changed)
	recipeState.Subscribe(autosaver.Changed)
	defer autosaver.Flush()

	rootCmd.AddCommand(chatcli.NewCmd(config, orchestrator, forwarder))
	rootCmd.AddCommand(ask.NewCmd(config, client))
	rootCmd.AddCommand(sessions.NewCmd(store))
	rootCmd.Execute()
}
