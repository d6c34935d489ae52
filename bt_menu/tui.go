package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/storskegg/bt-menu/internal/bluetooth"
)

// Column width constants for the device table
const (
	colWidthIcon    = 3
	colWidthAddress = 19
	colWidthStatus  = 12
	minWidthName    = 12
)

// pickerState tracks the device list, cursor and status line of the TUI
type pickerState struct {
	devices []bluetooth.Device
	cursor  int
	offset  int
	status  string
	busy    bool
}

// selected returns the device under the cursor
func (st *pickerState) selected() (bluetooth.Device, bool) {
	if st.cursor < 0 || st.cursor >= len(st.devices) {
		return bluetooth.Device{}, false
	}
	return st.devices[st.cursor], true
}

// setDevices replaces the list and keeps the cursor on the same address
func (st *pickerState) setDevices(devices []bluetooth.Device) {
	prev, had := st.selected()
	st.devices = devices
	st.cursor = 0
	if had {
		for i, d := range devices {
			if d.Address == prev.Address {
				st.cursor = i
				break
			}
		}
	}
	st.clamp(0)
}

// clamp keeps cursor inside the list and offset around cursor for a view of
// visible rows
func (st *pickerState) clamp(visible int) {
	if st.cursor >= len(st.devices) {
		st.cursor = len(st.devices) - 1
	}
	if st.cursor < 0 {
		st.cursor = 0
	}
	if visible <= 0 {
		return
	}
	if st.cursor < st.offset {
		st.offset = st.cursor
	}
	if st.cursor >= st.offset+visible {
		st.offset = st.cursor - visible + 1
	}
	if st.offset < 0 {
		st.offset = 0
	}
}

// drawPicker renders the device table and status line to the screen
func drawPicker(s tcell.Screen, st *pickerState, strs Strings) {
	s.Clear()
	width, height := s.Size()

	nameWidth := max(minWidthName, width-colWidthIcon-colWidthAddress-colWidthStatus)
	colWidths := []int{colWidthIcon, nameWidth, colWidthAddress, colWidthStatus}

	titleStyle := tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	drawText(s, 0, 0, width, titleStyle, " "+strs.Prompt)

	headerStyle := tcell.StyleDefault.Bold(true).Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	headers := []string{"", "Device Name", "Address", "State"}
	col := 0
	for i, header := range headers {
		drawText(s, col, 1, colWidths[i], headerStyle, header)
		col += colWidths[i]
	}

	// Title, header and status line
	visible := height - 3
	st.clamp(visible)

	if len(st.devices) == 0 {
		emptyStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
		drawText(s, 0, 2, width, emptyStyle, " "+iconSearching+"  "+strs.Searching)
	}

	row := 2
	for i := st.offset; i < len(st.devices) && row < height-1; i++ {
		drawDeviceRow(s, st.devices[i], colWidths, row, i == st.cursor)
		row++
	}

	if st.offset > 0 {
		indicatorStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		drawText(s, width-10, 2, 10, indicatorStyle, "▲ MORE ▲")
	}
	if st.offset+visible < len(st.devices) {
		indicatorStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		drawText(s, width-10, height-2, 10, indicatorStyle, "▼ MORE ▼")
	}

	statusStyle := tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	statusText := "q: Quit | Enter: Toggle | r: Refresh | f: Forget | ↑↓/jk: Move"
	if st.status != "" {
		statusText += " | " + st.status
	}
	drawText(s, 0, height-1, width, statusStyle, statusText)

	s.Show()
}

// drawDeviceRow renders one device line
func drawDeviceRow(s tcell.Screen, dev bluetooth.Device, colWidths []int, row int, focused bool) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	icon, iconColor := iconDevice, tcell.ColorGray
	if dev.Connected {
		style = style.Foreground(tcell.ColorWhite).Bold(true)
		icon, iconColor = iconConnected, tcell.ColorDeepSkyBlue
	}
	if focused {
		style = style.Background(tcell.ColorDarkGreen)
	}

	state := ""
	switch {
	case dev.Connected:
		state = "connected"
	case dev.Paired:
		state = "paired"
	}

	col := 0
	drawText(s, col, row, colWidths[0], style.Foreground(iconColor), " "+icon)
	col += colWidths[0]
	drawText(s, col, row, colWidths[1], style, dev.Name)
	col += colWidths[1]
	drawText(s, col, row, colWidths[2], style, dev.Address)
	col += colWidths[2]
	drawText(s, col, row, colWidths[3], style, state)
}

// drawText draws text at a specific position, truncating by display width
func drawText(s tcell.Screen, x, y, width int, style tcell.Style, text string) {
	if width <= 0 {
		return
	}
	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "…")
	}

	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > width {
			break
		}
		s.SetContent(x+col, y, r, nil, style)
		col += w
	}

	// Fill remaining space with blanks
	for col < width {
		s.SetContent(x+col, y, ' ', nil, style)
		col++
	}
}

// statusLine formats an engine error for the status bar
func statusLine(strs Strings, err error) string {
	if bluetooth.IsExecutionError(err) {
		return strs.NoResults
	}
	return fmt.Sprintf("%s: %v", strs.ActionFailed, err)
}
