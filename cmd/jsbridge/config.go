package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// replConfig is the optional ~/.jsbridge.toml. Missing file or fields fall
// back to defaults; a malformed file is ignored rather than fatal.
type replConfig struct {
	Prompt      string `toml:"prompt"`
	HistoryFile string `toml:"history_file"`
}

func defaultConfig() replConfig {
	return replConfig{
		Prompt:      "> ",
		HistoryFile: ".jsbridge_history",
	}
}

func loadConfig() replConfig {
	cfg := defaultConfig()
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".jsbridge.toml")
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return defaultConfig()
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = ".jsbridge_history"
	}
	return cfg
}

// historyPath resolves the history file relative to the home directory
// unless the config gave an absolute path.
func (c replConfig) historyPath() string {
	if filepath.IsAbs(c.HistoryFile) {
		return c.HistoryFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return c.HistoryFile
	}
	return filepath.Join(home, c.HistoryFile)
}
