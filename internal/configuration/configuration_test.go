package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInitializesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	config, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, "gpt-4o-mini", config.Chat.DefaultModel)
	assert.Equal(t, 60, config.RequestTimeout)

	// The default file was written for the next run.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestParseMergesDefaultsIntoPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	partial := map[string]any{
		"api_key": "sk-test",
		"chat": map[string]any{
			"default_model": "gpt-4o",
		},
	}
	bytes, err := json.Marshal(partial)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, bytes, 0644))

	config, err := Parse(path)
	require.NoError(t, err)

	// User values win.
	assert.Equal(t, "sk-test", config.APIKey)
	assert.Equal(t, "gpt-4o", config.Chat.DefaultModel)
	// Unset values come from defaults.
	assert.Equal(t, ProviderOpenAI, config.Provider)
	assert.Equal(t, 1024, config.Chat.MaxTokens)
	assert.NotEmpty(t, config.Chat.SystemPrompt)
}

func TestParseExpandsStatePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"state_path": "~/elsewhere/state.db"}`), 0644))

	config, err := Parse(path)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "elsewhere/state.db"), config.StatePath)
}

func TestExpandPathLeavesAbsolutePathsAlone(t *testing.T) {
	got, err := ExpandPath("/var/lib/souschef/state.db")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/souschef/state.db", got)
}
