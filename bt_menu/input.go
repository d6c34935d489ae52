package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/storskegg/bt-menu/internal/bluetooth"
)

type pickerAction int

const (
	actionNone pickerAction = iota
	actionQuit
	actionToggle
	actionRefresh
	actionForget
)

const pageSize = 10

// handleKeyboardEvent processes keyboard input
func handleKeyboardEvent(ev *tcell.EventKey, st *pickerState) pickerAction {
	return applyKey(ev.Key(), ev.Rune(), st)
}

// applyKey moves the cursor or names the action for a key. While an
// operation is running only quit keys are honoured.
func applyKey(key tcell.Key, r rune, st *pickerState) pickerAction {
	switch key {
	case tcell.KeyCtrlC, tcell.KeyEsc:
		return actionQuit
	case tcell.KeyRune:
		if r == 'q' || r == 'Q' {
			return actionQuit
		}
	}
	if st.busy {
		return actionNone
	}

	switch key {
	case tcell.KeyRune:
		switch r {
		case 'j', 'J': // Move down (vim-style)
			st.cursor++
		case 'k', 'K': // Move up (vim-style)
			st.cursor--
		case 'r', 'R':
			return actionRefresh
		case 'f', 'F':
			return actionForget
		case ' ':
			return actionToggle
		}
	case tcell.KeyEnter:
		return actionToggle
	case tcell.KeyUp:
		st.cursor--
	case tcell.KeyDown:
		st.cursor++
	case tcell.KeyPgUp:
		st.cursor -= pageSize
	case tcell.KeyPgDn:
		st.cursor += pageSize
	case tcell.KeyHome:
		st.cursor = 0
	case tcell.KeyEnd:
		st.cursor = len(st.devices) - 1
	}
	st.clamp(0)
	return actionNone
}

// handleMouseEvent moves the cursor with the wheel
func handleMouseEvent(ev *tcell.EventMouse, st *pickerState) {
	if st.busy {
		return
	}
	buttons := ev.Buttons()
	if buttons&tcell.WheelUp != 0 {
		st.cursor--
	} else if buttons&tcell.WheelDown != 0 {
		st.cursor++
	}
	st.clamp(0)
}

// tuiResult is what a background operation hands back to the event loop
type tuiResult struct {
	devices []bluetooth.Device
	reload  bool
	status  string
	err     error
}

// runTUI runs the terminal picker on s until the user quits or ctx ends.
func (a *App) runTUI(ctx context.Context, s tcell.Screen) error {
	if err := s.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer s.Fini()

	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.EnableMouse()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st := &pickerState{}
	results := make(chan tuiResult, 1)
	start := func(status string, op func(context.Context) tuiResult) {
		st.busy = true
		st.status = status
		go func() { results <- op(ctx) }()
	}

	start(a.strs.Searching, a.listOp(false))
	drawPicker(s, st, a.strs)

	// Event loop
	for {
		select {
		case <-ctx.Done():
			return nil

		case r := <-results:
			st.busy = false
			st.status = r.status
			if r.err != nil {
				st.status = statusLine(a.strs, r.err)
			}
			if r.reload {
				st.setDevices(r.devices)
			}
			drawPicker(s, st, a.strs)

		default:
			if !s.HasPendingEvent() {
				time.Sleep(10 * time.Millisecond)
				continue
			}
			switch ev := s.PollEvent().(type) {
			case *tcell.EventKey:
				switch handleKeyboardEvent(ev, st) {
				case actionQuit:
					return nil
				case actionRefresh:
					start(a.strs.Scanning, a.listOp(true))
				case actionToggle:
					if dev, ok := st.selected(); ok {
						verb := a.strs.Connecting
						if dev.Connected {
							verb = a.strs.Disconnecting
						}
						start(verb+" "+dev.Name+"...", a.actionOp(dev, a.toggle))
					}
				case actionForget:
					if dev, ok := st.selected(); ok && dev.Paired {
						start(a.strs.ForgetPrompt+" "+dev.Name, a.actionOp(dev, a.forget))
					} else if ok {
						st.status = a.strs.NoSavedDevices
					}
				}
				drawPicker(s, st, a.strs)
			case *tcell.EventMouse:
				handleMouseEvent(ev, st)
				drawPicker(s, st, a.strs)
			case *tcell.EventResize:
				s.Sync()
				drawPicker(s, st, a.strs)
			}
		}
	}
}

func (a *App) listOp(scan bool) func(context.Context) tuiResult {
	return func(ctx context.Context) tuiResult {
		devices, err := a.session.Discover(ctx, scan)
		return tuiResult{devices: devices, reload: err == nil, err: err}
	}
}

type deviceAction func(context.Context, bluetooth.Device) (bluetooth.ActionResult, error)

// actionOp runs fn and reloads the list so the table shows the new state
func (a *App) actionOp(dev bluetooth.Device, fn deviceAction) func(context.Context) tuiResult {
	return func(ctx context.Context) tuiResult {
		res, err := fn(ctx, dev)
		if err != nil && !errors.Is(err, bluetooth.ErrActionFailed) {
			return tuiResult{err: err}
		}
		out := tuiResult{status: a.describe(dev, res)}
		devices, err := a.session.Discover(ctx, false)
		if err == nil {
			out.devices = devices
			out.reload = true
		}
		return out
	}
}
