// Package bluetooth discovers Bluetooth devices through an external control
// utility (bluetoothctl) and reconciles the paired listing with a bounded
// live scan into one deduplicated, named device list.
package bluetooth

import (
	"context"
	"os/exec"
	"strconv"
	"time"
)

// Defaults for Options fields left at their zero value.
const (
	DefaultBinary        = "bluetoothctl"
	DefaultScanSeconds   = 4
	DefaultScanKillAfter = 5 * time.Second
	DefaultDetailWorkers = 4
	DefaultPairTimeout   = 10 * time.Second
)

// Notifier emits short user-facing status messages. Delivery failures are
// the implementation's concern and never reach the engine.
type Notifier interface {
	Notify(msg string)
}

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(msg string)

func (f NotifyFunc) Notify(msg string) { f(msg) }

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

// PowerController reads and sets the adapter power state.
type PowerController interface {
	Powered(ctx context.Context) (bool, error)
	SetPowered(ctx context.Context, on bool) error
}

// Messages are the notification texts. Callers supply translated strings.
type Messages struct {
	Scanning      string
	Connecting    string // followed by " <name>..."
	Disconnecting string // followed by " <name>..."
	Forgotten     string // followed by ": <name>"
	PoweringOn    string
}

// DefaultMessages are the English notification texts.
var DefaultMessages = Messages{
	Scanning:      "Scanning...",
	Connecting:    "Connecting to",
	Disconnecting: "Disconnecting",
	Forgotten:     "Forgotten",
	PoweringOn:    "Turning Bluetooth on...",
}

// Options configure a Session.
type Options struct {
	Runner   Runner
	Notifier Notifier

	// Power is optional; when set with AutoPower the adapter is powered on
	// before a scan or a connect.
	Power     PowerController
	AutoPower bool

	Binary        string
	ScanSeconds   int
	ScanKillAfter time.Duration

	// LineBuffer wraps the scan in `stdbuf -oL` when stdbuf is on PATH.
	LineBuffer bool

	DetailWorkers int
	PairTimeout   time.Duration
	Messages      Messages
}

// Session holds the capabilities one discovery/action cycle needs.
// It carries no device state between calls.
type Session struct {
	runner    Runner
	notifier  Notifier
	power     PowerController
	autoPower bool

	binary     string
	scanSecs   int
	killAfter  time.Duration
	lineBuffer bool
	workers    int
	pairTO     time.Duration
	msgs       Messages

	lookPath func(string) (string, error)
}

// NewSession builds a Session, filling defaults for zero-valued options.
func NewSession(opts Options) *Session {
	s := &Session{
		runner:     opts.Runner,
		notifier:   opts.Notifier,
		power:      opts.Power,
		autoPower:  opts.AutoPower,
		binary:     opts.Binary,
		scanSecs:   opts.ScanSeconds,
		killAfter:  opts.ScanKillAfter,
		lineBuffer: opts.LineBuffer,
		workers:    opts.DetailWorkers,
		pairTO:     opts.PairTimeout,
		msgs:       opts.Messages,
		lookPath:   exec.LookPath,
	}
	if s.runner == nil {
		s.runner = ExecRunner{}
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.binary == "" {
		s.binary = DefaultBinary
	}
	if s.scanSecs <= 0 {
		s.scanSecs = DefaultScanSeconds
	}
	if s.killAfter <= 0 {
		s.killAfter = DefaultScanKillAfter
	}
	if s.workers <= 0 {
		s.workers = DefaultDetailWorkers
	}
	if s.pairTO <= 0 {
		s.pairTO = DefaultPairTimeout
	}
	if s.msgs == (Messages{}) {
		s.msgs = DefaultMessages
	}
	return s
}

func (s *Session) ctl(args ...string) []string {
	return append([]string{s.binary}, args...)
}

// scanArgs builds the bounded scan command.
func (s *Session) scanArgs() []string {
	args := s.ctl("--timeout", strconv.Itoa(s.scanSecs), "scan", "on")
	if s.lineBuffer {
		if path, err := s.lookPath("stdbuf"); err == nil {
			args = append([]string{path, "-oL"}, args...)
		}
	}
	return args
}

func (s *Session) run(ctx context.Context, args ...string) (Result, error) {
	return s.runner.Run(ctx, Command{Args: args})
}

// ensurePowered turns the adapter on when AutoPower is set. Failures are
// logged only; a missing D-Bus or adapter is not fatal.
func (s *Session) ensurePowered(ctx context.Context) {
	if s.power == nil || !s.autoPower {
		return
	}
	on, err := s.power.Powered(ctx)
	if err != nil {
		runnerLog.Debug("adapter_power_query_failed", "error", err)
		return
	}
	if on {
		return
	}
	s.notifier.Notify(s.msgs.PoweringOn)
	if err := s.power.SetPowered(ctx, true); err != nil {
		runnerLog.Warn("adapter_power_on_failed", "error", err)
	}
}
