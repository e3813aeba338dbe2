// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Logs LogsConfig `toml:"logs"`
	View ViewConfig `toml:"view"`
	Log  LogConfig  `toml:"log"`
}

// LogsConfig locates the split logs.
type LogsConfig struct {
	Dir *string `toml:"dir"`
}

// ViewConfig maps default chart settings. Durations are seconds or m:ss text.
type ViewConfig struct {
	Mode         *string `toml:"mode"`
	Splits       *bool   `toml:"splits"`
	Waves        *string `toml:"waves"`
	Min          *string `toml:"min"`
	Max          *string `toml:"max"`
	ExcludeAbove *string `toml:"exclude-above"`
	ByDate       *bool   `toml:"by-date"`
	Theme        *string `toml:"theme"`
}

// LogConfig maps diagnostic logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// DefaultTemplate is written by `splitlog config` when no file exists.
const DefaultTemplate = `# splitlog configuration

[logs]
# dir = "~/.runelite/inferno-stats"

[view]
# mode = "raw"          # raw, pb or ema
# splits = true         # false plots wave deltas
# waves = "all"         # comma-separated wave ids, e.g. "9,18,last"
# min = "0:00"
# max = "1:10:00"
# exclude-above = ""    # drop attempts longer than this before deriving
# by-date = false
# theme = "dark"

[log]
# level = "warn"
`
