package main

import (
	"context"
	"strings"
	"sync"

	"github.com/storskegg/bt-menu/internal/bluetooth"
)

const (
	speakerAddr = "AA:BB:CC:DD:EE:01"
	budsAddr    = "AA:BB:CC:DD:EE:02"
	scanCmd     = "bluetoothctl --timeout 4 scan on"
)

// scriptRunner answers bluetoothctl calls from a table and launcher calls
// from a queue of selections. An empty queue behaves like Escape.
type scriptRunner struct {
	mu      sync.Mutex
	results map[string]bluetooth.Result
	errs    map[string]error
	picks   []string
	calls   []bluetooth.Command
}

func newScriptRunner() *scriptRunner {
	return &scriptRunner{
		results: make(map[string]bluetooth.Result),
		errs:    make(map[string]error),
	}
}

func (r *scriptRunner) on(stdout string, args ...string) *scriptRunner {
	r.results[strings.Join(args, " ")] = bluetooth.Result{Stdout: stdout}
	return r
}

func (r *scriptRunner) fail(err error, args ...string) *scriptRunner {
	r.errs[strings.Join(args, " ")] = err
	return r
}

func (r *scriptRunner) pick(selections ...string) *scriptRunner {
	r.picks = append(r.picks, selections...)
	return r
}

func (r *scriptRunner) Run(_ context.Context, c bluetooth.Command) (bluetooth.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)

	if c.Args[0] == "rofi" {
		if len(r.picks) == 0 {
			return bluetooth.Result{ExitStatus: 1}, nil
		}
		sel := r.picks[0]
		r.picks = r.picks[1:]
		return bluetooth.Result{Stdout: sel + "\n"}, nil
	}

	key := strings.Join(c.Args, " ")
	if err, ok := r.errs[key]; ok {
		return bluetooth.Result{}, err
	}
	if res, ok := r.results[key]; ok {
		return res, nil
	}
	return bluetooth.Result{ExitStatus: 1}, nil
}

func (r *scriptRunner) called() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = strings.Join(c.Args, " ")
	}
	return out
}

// launcherInputs returns the stdin of every launcher call.
func (r *scriptRunner) launcherInputs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.calls {
		if c.Args[0] == "rofi" {
			out = append(out, c.Stdin)
		}
	}
	return out
}

// sentNotes records notifications and beeps.
type sentNotes struct {
	mu    sync.Mutex
	msgs  []string
	beeps int
}

func (s *sentNotes) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.msgs...)
}

func newRecordingNotifier(sound bool) (*desktopNotifier, *sentNotes) {
	sent := &sentNotes{}
	return &desktopNotifier{
		enabled: true,
		sound:   sound,
		send: func(_, msg string) error {
			sent.mu.Lock()
			sent.msgs = append(sent.msgs, msg)
			sent.mu.Unlock()
			return nil
		},
		beep: func(float64, int) error {
			sent.mu.Lock()
			sent.beeps++
			sent.mu.Unlock()
			return nil
		},
	}, sent
}

func newTestApp(r bluetooth.Runner) (*App, *sentNotes) {
	cfg := defaultConfig()
	cfg.Menu.Theme = ""
	strs := catalog[0]
	notifier, sent := newRecordingNotifier(false)

	l, err := newLauncher(cfg.Menu, nil, r)
	if err != nil {
		panic(err)
	}
	return &App{
		cfg:      cfg,
		strs:     strs,
		notifier: notifier,
		launcher: l,
		session: bluetooth.NewSession(bluetooth.Options{
			Runner:   r,
			Notifier: notifier,
			Messages: strs.messages(),
		}),
	}, sent
}
