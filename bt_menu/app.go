package main

import (
	"context"
	"fmt"

	"github.com/storskegg/bt-menu/internal/bluetooth"
	"github.com/storskegg/bt-menu/internal/bluez"
)

var _ bluetooth.PowerController = (*bluez.Adapter)(nil)

// App ties the engine to the configured frontends.
type App struct {
	cfg      Config
	strs     Strings
	session  *bluetooth.Session
	notifier *desktopNotifier
	launcher *launcher

	closers []func() error
}

// newApp builds the session and launcher from cfg. passthrough holds extra
// launcher arguments from the command line.
func newApp(cfg Config, strs Strings, passthrough []string) (*App, error) {
	runner := bluetooth.ExecRunner{}
	notifier := newDesktopNotifier(cfg.Notify)

	opts := bluetooth.Options{
		Runner:        runner,
		Notifier:      notifier,
		AutoPower:     cfg.Scan.AutoPower,
		ScanSeconds:   cfg.Scan.Seconds,
		ScanKillAfter: cfg.Scan.KillAfter(),
		LineBuffer:    cfg.Scan.UseLineBuffer(),
		DetailWorkers: cfg.Scan.DetailWorkers,
		Messages:      strs.messages(),
	}

	a := &App{cfg: cfg, strs: strs, notifier: notifier}

	if cfg.Scan.AutoPower {
		adapter, err := bluez.Open(cfg.Scan.Adapter)
		if err != nil {
			menuLog.Warn("bluez_unavailable", "error", err)
		} else {
			opts.Power = adapter
			a.closers = append(a.closers, adapter.Close)
		}
	}
	a.session = bluetooth.NewSession(opts)

	l, err := newLauncher(cfg.Menu, passthrough, runner)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.launcher = l
	return a, nil
}

// Close releases the D-Bus connection if one was opened.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			menuLog.Debug("close_failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) toggle(ctx context.Context, dev bluetooth.Device) (bluetooth.ActionResult, error) {
	res, err := a.session.Toggle(ctx, dev)
	if err != nil {
		return res, err
	}
	a.finish(dev, res)
	return res, res.Err()
}

func (a *App) forget(ctx context.Context, dev bluetooth.Device) (bluetooth.ActionResult, error) {
	res, err := a.session.Forget(ctx, dev)
	if err != nil {
		return res, err
	}
	a.finish(dev, res)
	return res, res.Err()
}

func (a *App) connect(ctx context.Context, dev bluetooth.Device) (bluetooth.ActionResult, error) {
	res, err := a.session.Connect(ctx, dev)
	if err != nil {
		return res, err
	}
	a.finish(dev, res)
	return res, res.Err()
}

func (a *App) disconnect(ctx context.Context, dev bluetooth.Device) (bluetooth.ActionResult, error) {
	res, err := a.session.Disconnect(ctx, dev)
	if err != nil {
		return res, err
	}
	a.finish(dev, res)
	return res, res.Err()
}

// finish reports a failed action and plays the outcome sound.
func (a *App) finish(dev bluetooth.Device, res bluetooth.ActionResult) {
	if !res.OK {
		a.notifier.Alert(fmt.Sprintf("%s: %s", a.strs.ActionFailed, dev.Name))
		return
	}
	a.notifier.Result(true)
}

// describe is the one-line status shown after an action.
func (a *App) describe(dev bluetooth.Device, res bluetooth.ActionResult) string {
	if !res.OK {
		return fmt.Sprintf("%s: %s", a.strs.ActionFailed, dev.Name)
	}
	switch res.Action {
	case bluetooth.ActionConnect:
		if res.Connected {
			return dev.Name + " " + a.strs.ConnectedSuffix
		}
		return dev.Name
	case bluetooth.ActionDisconnect:
		return a.strs.Disconnecting + " " + dev.Name
	default:
		return a.strs.Forgotten + ": " + dev.Name
	}
}

// resolve finds query among discovered devices. A well-formed address
// that is not listed still resolves, as an unpaired device.
func (a *App) resolve(ctx context.Context, query string, scan bool) (bluetooth.Device, error) {
	devices, err := a.session.Discover(ctx, scan)
	if err != nil {
		return bluetooth.Device{}, err
	}
	dev, err := bluetooth.Find(devices, query)
	if err == nil {
		return dev, nil
	}
	if addr, ok := bluetooth.NormalizeAddress(query); ok {
		return bluetooth.Device{Address: addr, Name: addr}, nil
	}
	return bluetooth.Device{}, err
}
