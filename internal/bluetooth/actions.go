package bluetooth

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/storskegg/bt-menu/internal/logging"
)

var actionLog = logging.ForComponent(logging.CompAction)

// Action names a device operation.
type Action string

const (
	ActionConnect    Action = "connect"
	ActionDisconnect Action = "disconnect"
	ActionForget     Action = "forget"
)

// ActionResult is the settled outcome of an action.
type ActionResult struct {
	Address string `json:"address"`
	Action  Action `json:"action"`
	OK      bool   `json:"ok"`

	// Connected is the state reported by the follow-up detail query.
	Connected bool   `json:"connected"`
	Output    string `json:"output,omitempty"`
}

// Err returns ErrActionFailed wrapped with context when the action did not succeed.
func (r ActionResult) Err() error {
	if r.OK {
		return nil
	}
	return fmt.Errorf("%s %s: %w", r.Action, r.Address, ErrActionFailed)
}

// Toggle disconnects a connected device and connects any other.
func (s *Session) Toggle(ctx context.Context, dev Device) (ActionResult, error) {
	if dev.Connected {
		return s.Disconnect(ctx, dev)
	}
	return s.Connect(ctx, dev)
}

// Connect pairs and trusts an unpaired device first, then connects and
// confirms the state with a detail query.
func (s *Session) Connect(ctx context.Context, dev Device) (ActionResult, error) {
	s.ensurePowered(ctx)
	s.notifier.Notify(fmt.Sprintf("%s %s...", s.msgs.Connecting, dev.Name))

	if !dev.Paired {
		res, err := s.runner.Run(ctx, Command{Args: s.ctl("pair", dev.Address), Timeout: s.pairTO})
		if err != nil {
			return ActionResult{}, err
		}
		actionLog.Debug("pair", "addr", dev.Address, "exit", res.ExitStatus, "timed_out", res.TimedOut)
		if _, err := s.run(ctx, s.ctl("trust", dev.Address)...); err != nil {
			return ActionResult{}, err
		}
	}

	res, err := s.run(ctx, s.ctl("connect", dev.Address)...)
	if err != nil {
		return ActionResult{}, err
	}
	return s.settle(ctx, dev, ActionConnect, res)
}

// Disconnect drops the connection and confirms with a detail query.
func (s *Session) Disconnect(ctx context.Context, dev Device) (ActionResult, error) {
	s.notifier.Notify(fmt.Sprintf("%s %s...", s.msgs.Disconnecting, dev.Name))
	res, err := s.run(ctx, s.ctl("disconnect", dev.Address)...)
	if err != nil {
		return ActionResult{}, err
	}
	return s.settle(ctx, dev, ActionDisconnect, res)
}

// Forget removes the device from the paired set.
func (s *Session) Forget(ctx context.Context, dev Device) (ActionResult, error) {
	res, err := s.run(ctx, s.ctl("remove", dev.Address)...)
	if err != nil {
		return ActionResult{}, err
	}
	out := ActionResult{
		Address: dev.Address,
		Action:  ActionForget,
		OK:      res.OK(),
		Output:  strings.TrimSpace(StripANSI(res.Stdout)),
	}
	if out.OK {
		s.notifier.Notify(fmt.Sprintf("%s: %s", s.msgs.Forgotten, dev.Name))
	}
	actionLog.Info("forget", "addr", dev.Address, "ok", out.OK)
	return out, nil
}

func (s *Session) settle(ctx context.Context, dev Device, action Action, res Result) (ActionResult, error) {
	info, err := s.Info(ctx, dev.Address)
	if err != nil {
		return ActionResult{}, err
	}
	out := ActionResult{
		Address:   dev.Address,
		Action:    action,
		OK:        res.OK(),
		Connected: info.Connected,
		Output:    strings.TrimSpace(StripANSI(res.Stdout)),
	}
	actionLog.Info(string(action), "addr", dev.Address, "ok", out.OK, "connected", out.Connected)
	return out, nil
}

// deviceNames adapts a device slice to fuzzy.Source.
type deviceNames []Device

func (d deviceNames) String(i int) string { return d[i].Name }
func (d deviceNames) Len() int            { return len(d) }

// Find resolves a user query to a device: an address in any case or
// separator style first, then the best fuzzy name match.
func Find(devices []Device, query string) (Device, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Device{}, ErrUnknownDevice
	}
	if addr, ok := NormalizeAddress(query); ok {
		for _, d := range devices {
			if d.Address == addr {
				return d, nil
			}
		}
	}
	for _, d := range devices {
		if strings.EqualFold(d.Name, query) {
			return d, nil
		}
	}
	matches := fuzzy.FindFrom(query, deviceNames(devices))
	if len(matches) == 0 {
		return Device{}, fmt.Errorf("%q: %w", query, ErrUnknownDevice)
	}
	return devices[matches[0].Index], nil
}
