package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"

	"github.com/storskegg/bt-menu/internal/bluetooth"
)

// writeJSON encodes devices as an indented JSON array.
func writeJSON(w io.Writer, devices []bluetooth.Device) error {
	if devices == nil {
		devices = []bluetooth.Device{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(devices)
}

// exportJSON writes devices to filename.
func exportJSON(filename string, devices []bluetooth.Device) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := writeJSON(file, devices); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// writeTable prints one aligned line per device.
func writeTable(w io.Writer, devices []bluetooth.Device) error {
	nameWidth := len("NAME")
	for _, d := range devices {
		nameWidth = max(nameWidth, runewidth.StringWidth(d.Name))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %-17s  %s\n", runewidth.FillRight("NAME", nameWidth), "ADDRESS", "STATE")
	for _, d := range devices {
		state := "-"
		switch {
		case d.Connected && d.Paired:
			state = "connected,paired"
		case d.Connected:
			state = "connected"
		case d.Paired:
			state = "paired"
		}
		fmt.Fprintf(&b, "%s  %-17s  %s\n", runewidth.FillRight(d.Name, nameWidth), d.Address, state)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
