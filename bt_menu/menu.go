package main

import (
	"context"
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/storskegg/bt-menu/internal/bluetooth"
	"github.com/storskegg/bt-menu/internal/logging"
)

var menuLog = logging.ForComponent(logging.CompMenu)

// Colors and icons of the launcher rows (Pango markup)
const (
	colorWhite = "#FFFFFF"
	colorGray  = "#7d7d7d"
	colorBlue  = "#00bfff"

	iconForget    = "󰆴"
	iconRefresh   = "󰑐"
	iconConnected = "󰂱"
	iconDevice    = "󰂯"
	iconSearching = "󰂰"
	iconOff       = "󰂲"
)

type rowKind int

const (
	rowDevice rowKind = iota
	rowForget
	rowRefresh
	rowSpacer
	rowSearching
)

// menuRow is one launcher line and what selecting it means.
type menuRow struct {
	label  string
	kind   rowKind
	device bluetooth.Device
}

// buildMainRows renders the main menu: Forget, Refresh, a spacer, then the
// devices. An empty list shows a single searching row instead.
func buildMainRows(devices []bluetooth.Device, strs Strings, unavailable bool) []menuRow {
	rows := []menuRow{
		{label: span(colorWhite, iconForget+"  "+strs.ForgetDevice), kind: rowForget},
		{label: span(colorWhite, iconRefresh+"  "+strs.RefreshList), kind: rowRefresh},
		{label: " ", kind: rowSpacer},
	}
	switch {
	case unavailable:
		rows = append(rows, menuRow{label: span(colorGray, iconOff+"  "+strs.NoResults), kind: rowSearching})
	case len(devices) == 0:
		rows = append(rows, menuRow{label: span(colorGray, iconSearching+"  "+strs.Searching), kind: rowSearching})
	}
	for _, d := range devices {
		rows = append(rows, menuRow{label: deviceLabel(d), kind: rowDevice, device: d})
	}
	return rows
}

// buildForgetRows lists paired devices by plain name.
func buildForgetRows(paired []bluetooth.Device) []menuRow {
	rows := make([]menuRow, 0, len(paired))
	for _, d := range paired {
		rows = append(rows, menuRow{label: html.EscapeString(d.Name), kind: rowDevice, device: d})
	}
	return rows
}

func deviceLabel(d bluetooth.Device) string {
	name := html.EscapeString(d.Name)
	if d.Connected {
		return fmt.Sprintf(`<span color="%s">%s</span>  <span color="%s"><b>%s</b></span>`,
			colorBlue, iconConnected, colorWhite, name)
	}
	return span(colorGray, iconDevice+"  "+name)
}

func span(color, text string) string {
	return fmt.Sprintf(`<span color="%s">%s</span>`, color, text)
}

func labels(rows []menuRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.label
	}
	return out
}

// pickRow maps the launcher's output back to a row.
func pickRow(rows []menuRow, selection string) (menuRow, bool) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return menuRow{}, false
	}
	for _, r := range rows {
		if strings.TrimSpace(r.label) == selection {
			return r, true
		}
	}
	return menuRow{}, false
}

// launcher runs a dmenu-compatible picker such as rofi.
type launcher struct {
	command     []string
	theme       string
	minLines    int
	maxLines    int
	passthrough []string
	runner      bluetooth.Runner
}

func newLauncher(cfg MenuConfig, passthrough []string, runner bluetooth.Runner) (*launcher, error) {
	command, err := shlex.Split(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("menu command %q: %w", cfg.Command, err)
	}
	if len(command) == 0 {
		return nil, fmt.Errorf("menu command: %w", bluetooth.ErrEmptyCommand)
	}
	return &launcher{
		command:     command,
		theme:       expandHome(cfg.Theme),
		minLines:    cfg.MinLines,
		maxLines:    cfg.MaxLines,
		passthrough: stripFlags(passthrough, "-p", "-l", "-lines"),
		runner:      runner,
	}, nil
}

// argv builds the launcher command line for n rows.
func (l *launcher) argv(n int, prompt string) []string {
	args := stripFlags(l.command, "-p", "-l", "-lines")
	for _, flag := range []string{"-dmenu", "-markup-rows"} {
		if !slices.Contains(args, flag) {
			args = append(args, flag)
		}
	}
	lines := min(max(n, l.minLines), l.maxLines)
	args = append(args, "-p", prompt, "-l", strconv.Itoa(lines))
	args = append(args, l.passthrough...)

	if l.theme != "" {
		if i := slices.Index(args, "-theme"); i >= 0 && i+1 < len(args) {
			args[i+1] = l.theme
		} else {
			args = append(args, "-theme", l.theme)
		}
	}
	return args
}

// pick shows rows and returns the chosen line. Cancelling yields "".
func (l *launcher) pick(ctx context.Context, rows []string, prompt string) (string, error) {
	res, err := l.runner.Run(ctx, bluetooth.Command{
		Args:  l.argv(len(rows), prompt),
		Stdin: strings.Join(rows, "\n"),
	})
	if err != nil {
		return "", err
	}
	if !res.OK() {
		// rofi exits 1 on Escape
		menuLog.Debug("launcher_cancelled", "exit", res.ExitStatus)
		return "", nil
	}
	return strings.TrimSpace(res.Stdout), nil
}

// stripFlags drops each named flag together with its value.
func stripFlags(args []string, flags ...string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if slices.Contains(flags, args[i]) {
			i++
			continue
		}
		out = append(out, args[i])
	}
	return out
}

// runMenu drives the launcher frontend until a device action runs or the
// user cancels.
func (a *App) runMenu(ctx context.Context) error {
	devices, unavailable := a.discoverForMenu(ctx, false)
	for {
		rows := buildMainRows(devices, a.strs, unavailable)
		sel, err := a.launcher.pick(ctx, labels(rows), a.strs.Prompt)
		if err != nil {
			return err
		}
		row, ok := pickRow(rows, sel)
		if !ok {
			return nil
		}

		switch row.kind {
		case rowForget:
			if err := a.forgetMenu(ctx); err != nil {
				return err
			}
			devices, unavailable = a.discoverForMenu(ctx, false)
		case rowRefresh:
			devices, unavailable = a.discoverForMenu(ctx, true)
		case rowDevice:
			_, err := a.toggle(ctx, row.device)
			return err
		default:
			return nil
		}
	}
}

func (a *App) forgetMenu(ctx context.Context) error {
	paired, err := a.session.ListPaired(ctx)
	if err != nil {
		return err
	}
	if len(paired) == 0 {
		a.notifier.Notify(a.strs.NoSavedDevices)
		return nil
	}
	rows := buildForgetRows(paired)
	sel, err := a.launcher.pick(ctx, labels(rows), a.strs.ForgetPrompt)
	if err != nil {
		return err
	}
	row, ok := pickRow(rows, sel)
	if !ok {
		return nil
	}
	_, err = a.forget(ctx, row.device)
	return err
}

// discoverForMenu reports an unavailable controller as an empty list.
func (a *App) discoverForMenu(ctx context.Context, forceScan bool) ([]bluetooth.Device, bool) {
	devices, err := a.session.Discover(ctx, forceScan)
	if err != nil {
		menuLog.Warn("discover_failed", "error", err, "exec", bluetooth.IsExecutionError(err))
		return nil, true
	}
	return devices, false
}
