package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func readFirstRecord(t *testing.T, data []byte) map[string]any {
	t.Helper()
	sc := bufio.NewScanner(bytes.NewReader(data))
	require.True(t, sc.Scan(), "log is empty")
	var record map[string]any
	require.NoError(t, json.Unmarshal(sc.Bytes(), &record))
	return record
}

func TestInitWritesJSONToLogDir(t *testing.T) {
	Shutdown()
	dir := t.TempDir()
	Init(Config{LogDir: dir, Level: "info"})
	defer Shutdown()

	Logger().Info("test_message", "key", "value")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)

	record := readFirstRecord(t, data)
	require.Equal(t, "test_message", record["msg"])
	require.Equal(t, "value", record["key"])
}

func TestInitDiscardsWithoutDirOrDebug(t *testing.T) {
	Shutdown()
	Init(Config{})
	defer Shutdown()

	require.NotNil(t, Logger())
	Logger().Info("this goes nowhere")
}

func TestDebugWithoutDirUsesStderrWriter(t *testing.T) {
	Shutdown()
	var buf bytes.Buffer
	Init(Config{Debug: true, Stderr: &buf, Format: "json"})
	defer Shutdown()

	Logger().Debug("dbg", "n", 1)
	record := readFirstRecord(t, buf.Bytes())
	require.Equal(t, "dbg", record["msg"])
	require.Equal(t, "DEBUG", record["level"])
}

func TestForComponentResolvesHandlerLate(t *testing.T) {
	Shutdown()
	log := ForComponent(CompScan)

	var buf bytes.Buffer
	Init(Config{Debug: true, Stderr: &buf})
	defer Shutdown()

	log.With("addr", "AA:BB:CC:DD:EE:FF").Info("event")

	record := readFirstRecord(t, buf.Bytes())
	require.Equal(t, CompScan, record["component"])
	require.Equal(t, "AA:BB:CC:DD:EE:FF", record["addr"])
}

func TestLevelFiltering(t *testing.T) {
	Shutdown()
	var buf bytes.Buffer
	Init(Config{Debug: false, LogDir: "", Stderr: &buf})
	defer Shutdown()
	Logger().Error("dropped")
	require.Zero(t, buf.Len())

	Shutdown()
	dir := t.TempDir()
	Init(Config{LogDir: dir, Level: "warn"})
	Logger().Info("filtered")
	Logger().Warn("kept")
	Shutdown()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	record := readFirstRecord(t, data)
	require.Equal(t, "kept", record["msg"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		require.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}
