package main

import (
	"time"

	"github.com/gen2brain/beeep"

	"github.com/storskegg/bt-menu/internal/bluetooth"
	"github.com/storskegg/bt-menu/internal/logging"
)

var notifyLog = logging.ForComponent(logging.CompNotify)

var _ bluetooth.Notifier = (*desktopNotifier)(nil)

// desktopNotifier sends notifications through beeep. Failures are logged
// and otherwise ignored.
type desktopNotifier struct {
	enabled bool
	sound   bool

	// send is beeep.Notify outside tests
	send func(title, message string) error
	beep func(freq float64, duration int) error
}

func newDesktopNotifier(cfg NotifyConfig) *desktopNotifier {
	return &desktopNotifier{
		enabled: cfg.IsEnabled(),
		sound:   cfg.Sound,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		beep: beeep.Beep,
	}
}

// Notify implements bluetooth.Notifier.
func (n *desktopNotifier) Notify(msg string) {
	if !n.enabled || msg == "" {
		return
	}
	if err := n.send(appName, msg); err != nil {
		notifyLog.Debug("notify_failed", "error", err)
	}
}

// Alert notifies regardless of the sound setting, for failures.
func (n *desktopNotifier) Alert(msg string) {
	n.Notify(msg)
	if n.sound {
		n.playFailure()
	}
}

// Result plays the outcome sound of a finished action.
func (n *desktopNotifier) Result(ok bool) {
	if !n.sound {
		return
	}
	if ok {
		n.playSuccess()
	} else {
		n.playFailure()
	}
}

func (n *desktopNotifier) playSuccess() {
	// Ascending two-tone
	_ = n.beep(600, 150)
	time.Sleep(50 * time.Millisecond)
	_ = n.beep(800, 150)
}

func (n *desktopNotifier) playFailure() {
	// Low, longer tone
	_ = n.beep(400, 300)
}
