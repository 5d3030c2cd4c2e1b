// ABOUTME: Local user settings for the genie CLI
// ABOUTME: Reads an optional TOML file from the user config directory

package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings holds per-user CLI preferences, distinct from workspace config.
type Settings struct {
	Output  OutputSettings  `toml:"output"`
	History HistorySettings `toml:"history"`
}

type OutputSettings struct {
	Color   bool `toml:"color"`
	MaxRows int  `toml:"max_rows"`
}

type HistorySettings struct {
	Path string `toml:"path"`
}

func defaultSettings() *Settings {
	return &Settings{
		Output: OutputSettings{Color: true, MaxRows: 20},
	}
}

// loadSettings reads settings.toml from the user config dir. A missing file
// yields defaults; a malformed file is an error so typos don't pass silently.
func loadSettings() (*Settings, error) {
	s := defaultSettings()

	dir, err := os.UserConfigDir()
	if err != nil {
		return s, nil
	}
	path := filepath.Join(dir, "genie", "settings.toml")

	if _, err := toml.DecodeFile(path, s); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultSettings(), nil
		}
		return nil, err
	}
	if s.Output.MaxRows <= 0 {
		s.Output.MaxRows = 20
	}
	return s, nil
}
