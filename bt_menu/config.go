package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	appName        = "bt-menu"
	configFileName = "config.toml"

	frontendAuto = "auto"
	frontendRofi = "rofi"
	frontendTUI  = "tui"

	envFrontend = "BT_MENU_FRONTEND"
	envLogLevel = "BT_MENU_LOG_LEVEL"
)

// Config is the user configuration read from config.toml.
type Config struct {
	Menu   MenuConfig   `toml:"menu"`
	Scan   ScanConfig   `toml:"scan"`
	Notify NotifyConfig `toml:"notify"`
	Log    LogConfig    `toml:"log"`
}

// MenuConfig controls the launcher frontend.
type MenuConfig struct {
	// Command is a dmenu-compatible launcher, split with shell quoting rules
	Command  string `toml:"command"`
	Theme    string `toml:"theme"`
	Frontend string `toml:"frontend"`
	MinLines int    `toml:"min_lines"`
	MaxLines int    `toml:"max_lines"`
}

// ScanConfig controls discovery.
type ScanConfig struct {
	Seconds          int    `toml:"seconds"`
	KillAfterSeconds int    `toml:"kill_after_seconds"`
	DetailWorkers    int    `toml:"detail_workers"`
	AutoPower        bool   `toml:"auto_power"`
	Adapter          string `toml:"adapter"`
	LineBuffer       *bool  `toml:"line_buffer"`
}

// KillAfter is the wall-clock bound on the scan process.
func (s ScanConfig) KillAfter() time.Duration {
	return time.Duration(s.KillAfterSeconds) * time.Second
}

// UseLineBuffer defaults to true when unset.
func (s ScanConfig) UseLineBuffer() bool {
	return s.LineBuffer == nil || *s.LineBuffer
}

// NotifyConfig controls desktop notifications.
type NotifyConfig struct {
	Enabled *bool `toml:"enabled"`
	Sound   bool  `toml:"sound"`
}

// IsEnabled defaults to true when unset.
func (n NotifyConfig) IsEnabled() bool {
	return n.Enabled == nil || *n.Enabled
}

// LogConfig controls the log file.
type LogConfig struct {
	Dir    string `toml:"dir"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func defaultConfig() Config {
	return withDefaults(Config{})
}

// withDefaults fills zero-valued fields.
func withDefaults(cfg Config) Config {
	if cfg.Menu.Command == "" {
		cfg.Menu.Command = "rofi -dmenu"
	}
	if cfg.Menu.Theme == "" {
		cfg.Menu.Theme = "~/.config/waybar/menus/bluetooth/bluetooth.rasi"
	}
	if cfg.Menu.Frontend == "" {
		cfg.Menu.Frontend = frontendAuto
	}
	if cfg.Menu.MinLines <= 0 {
		cfg.Menu.MinLines = 1
	}
	if cfg.Menu.MaxLines < cfg.Menu.MinLines {
		cfg.Menu.MaxLines = max(10, cfg.Menu.MinLines)
	}
	if cfg.Scan.Seconds <= 0 {
		cfg.Scan.Seconds = 4
	}
	// The kill bound must outlast the utility's own timeout
	if cfg.Scan.KillAfterSeconds <= cfg.Scan.Seconds {
		cfg.Scan.KillAfterSeconds = cfg.Scan.Seconds + 1
	}
	if cfg.Scan.DetailWorkers <= 0 {
		cfg.Scan.DetailWorkers = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	return cfg
}

// defaultConfigPath returns $XDG_CONFIG_HOME/bt-menu/config.toml.
func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, appName, configFileName)
}

// loadConfig reads path (or the default path when empty). A missing file
// yields defaults. A parse error yields defaults and the error.
func loadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigPath()
	}

	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = Config{}
		err = nil
	case err != nil:
		cfg = Config{}
		err = fmt.Errorf("%s parse error: %w", path, err)
	}

	cfg = applyEnv(withDefaults(cfg))
	return cfg, err
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(envFrontend)); v != "" {
		cfg.Menu.Frontend = v
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	return cfg
}

// expandHome replaces a leading "~/" with the home directory.
func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
