package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(envFrontend, "")
	t.Setenv(envLogLevel, "")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	assert.Equal(t, "rofi -dmenu", cfg.Menu.Command)
	assert.Equal(t, frontendAuto, cfg.Menu.Frontend)
	assert.Equal(t, 1, cfg.Menu.MinLines)
	assert.Equal(t, 10, cfg.Menu.MaxLines)
	assert.Equal(t, 4, cfg.Scan.Seconds)
	assert.Equal(t, 5*time.Second, cfg.Scan.KillAfter())
	assert.Equal(t, 4, cfg.Scan.DetailWorkers)
	assert.True(t, cfg.Scan.UseLineBuffer())
	assert.True(t, cfg.Notify.IsEnabled())
	assert.False(t, cfg.Notify.Sound)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv(envFrontend, "")
	t.Setenv(envLogLevel, "")

	path := writeConfig(t, `
[menu]
command = "wofi --dmenu"
frontend = "rofi"
max_lines = 6

[scan]
seconds = 8
detail_workers = 2
auto_power = true
adapter = "hci1"
line_buffer = false

[notify]
enabled = false
sound = true

[log]
dir = "/tmp/bt-menu-logs"
level = "debug"
format = "text"
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "wofi --dmenu", cfg.Menu.Command)
	assert.Equal(t, frontendRofi, cfg.Menu.Frontend)
	assert.Equal(t, 1, cfg.Menu.MinLines)
	assert.Equal(t, 6, cfg.Menu.MaxLines)
	assert.Equal(t, 8, cfg.Scan.Seconds)
	assert.Equal(t, 9*time.Second, cfg.Scan.KillAfter())
	assert.Equal(t, 2, cfg.Scan.DetailWorkers)
	assert.True(t, cfg.Scan.AutoPower)
	assert.Equal(t, "hci1", cfg.Scan.Adapter)
	assert.False(t, cfg.Scan.UseLineBuffer())
	assert.False(t, cfg.Notify.IsEnabled())
	assert.True(t, cfg.Notify.Sound)
	assert.Equal(t, LogConfig{Dir: "/tmp/bt-menu-logs", Level: "debug", Format: "text"}, cfg.Log)
}

func TestLoadConfigParseErrorFallsBack(t *testing.T) {
	t.Setenv(envFrontend, "")
	t.Setenv(envLogLevel, "")

	path := writeConfig(t, "[menu\ncommand = ")

	cfg, err := loadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv(envFrontend, "tui")
	t.Setenv(envLogLevel, "warn")

	path := writeConfig(t, "[menu]\nfrontend = \"rofi\"\n")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, frontendTUI, cfg.Menu.Frontend)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestWithDefaultsKeepsLineBounds(t *testing.T) {
	t.Parallel()

	cfg := withDefaults(Config{Menu: MenuConfig{MinLines: 12}})
	assert.Equal(t, 12, cfg.Menu.MinLines)
	assert.Equal(t, 12, cfg.Menu.MaxLines)

	cfg = withDefaults(Config{Menu: MenuConfig{MinLines: 3, MaxLines: 5}})
	assert.Equal(t, 5, cfg.Menu.MaxLines)
}

func TestWithDefaultsKillAfterOutlastsScan(t *testing.T) {
	t.Parallel()

	cfg := withDefaults(Config{Scan: ScanConfig{Seconds: 8, KillAfterSeconds: 3}})
	assert.Equal(t, 9*time.Second, cfg.Scan.KillAfter())

	cfg = withDefaults(Config{Scan: ScanConfig{Seconds: 8, KillAfterSeconds: 8}})
	assert.Equal(t, 9*time.Second, cfg.Scan.KillAfter())

	cfg = withDefaults(Config{Scan: ScanConfig{Seconds: 4, KillAfterSeconds: 12}})
	assert.Equal(t, 12*time.Second, cfg.Scan.KillAfter())
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, "/xdg/bt-menu/config.toml", defaultConfigPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/me")
	assert.Equal(t, "/home/me/.config/bt-menu/config.toml", defaultConfigPath())
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/me")

	assert.Equal(t, "/home/me/.config/x.rasi", expandHome("~/.config/x.rasi"))
	assert.Equal(t, "/home/me", expandHome("~"))
	assert.Equal(t, "/abs/x.rasi", expandHome("/abs/x.rasi"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}
