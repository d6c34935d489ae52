package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storskegg/bt-menu/internal/bluetooth"
)

var sampleDevices = []bluetooth.Device{
	{Address: speakerAddr, Name: "Speaker", Connected: true, Paired: true},
	{Address: budsAddr, Name: "Buds"},
}

func TestWriteJSONEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestExportJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "devices.json")
	require.NoError(t, exportJSON(path, sampleDevices))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"address": "AA:BB:CC:DD:EE:01"`)

	var got []bluetooth.Device
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sampleDevices, got)
}

func TestExportJSONBadPath(t *testing.T) {
	t.Parallel()

	err := exportJSON(filepath.Join(t.TempDir(), "missing", "devices.json"), sampleDevices)
	require.Error(t, err)
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, sampleDevices))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NAME     ADDRESS            STATE", lines[0])
	assert.Equal(t, "Speaker  AA:BB:CC:DD:EE:01  connected,paired", lines[1])
	assert.Equal(t, "Buds     AA:BB:CC:DD:EE:02  -", lines[2])
}
