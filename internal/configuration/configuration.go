// Package configuration loads the souschef JSON configuration file,
// writing a default one on first run and merging defaults into whatever
// the user's file leaves unset.
package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/pkg/errors"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var defaultConfig = Config{
	Provider:       ProviderOpenAI,
	APIKey:         "API_KEY",
	APIHost:        "https://api.openai.com/v1",
	RequestTimeout: 60,

	Chat: &ChatConfig{
		DefaultModel: "gpt-4o-mini",
		MaxTokens:    1024,
		SystemPrompt: "You are a helpful cooking assistant. Answer questions about recipes, " +
			"ingredients, techniques and meal planning. Keep answers practical.",
	},

	StatePath: "~/.souschef/state.db",
}

// Config holds configuration for the souschef tool.
type Config struct {
	Provider       string `json:"provider"`
	APIKey         string `json:"api_key"`
	APIHost        string `json:"api_host"`
	RequestTimeout int    `json:"request_timeout"`

	Chat *ChatConfig `json:"chat"`

	// StatePath locates the sqlite file holding the persisted state blob.
	StatePath string `json:"state_path"`
}

// ChatConfig holds the chat defaults.
type ChatConfig struct {
	// The model used when none is specified on the command line.
	DefaultModel string `json:"default_model"`
	// MaxTokens per generation. Zero means provider default.
	MaxTokens int `json:"max_tokens"`
	// Temperature for generations.
	Temperature float32 `json:"temperature"`
	// SystemPrompt injected ahead of every conversation.
	SystemPrompt string `json:"system_prompt"`
}

// Parse a configuration file.
func Parse(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if err := mergo.Merge(config, defaultConfig); err != nil {
		return nil, errors.Wrap(err, "merging defaults")
	}

	expandedStatePath, err := ExpandPath(config.StatePath)
	if err != nil {
		return nil, errors.Wrap(err, "expanding state path")
	}
	config.StatePath = expandedStatePath
	return config, nil
}

// ExpandPath expands a path to avoid `~`.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "getting user home dir")
	}
	return filepath.Join(home, path[2:]), nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	if err := os.WriteFile(path, bytes, 0644); err != nil {
		return errors.Wrap(err, "writing file")
	}
	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}
