package bluetooth

import (
	"context"
	"strings"
	"sync"
)

// fakeRunner returns canned results keyed by the joined argv and records
// every call. Unknown commands exit 1 with no output.
type fakeRunner struct {
	mu      sync.Mutex
	results map[string]Result
	errs    map[string]error
	calls   []Command
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: make(map[string]Result),
		errs:    make(map[string]error),
	}
}

func (f *fakeRunner) on(stdout string, args ...string) *fakeRunner {
	f.results[strings.Join(args, " ")] = Result{Stdout: stdout}
	return f
}

func (f *fakeRunner) onResult(res Result, args ...string) *fakeRunner {
	f.results[strings.Join(args, " ")] = res
	return f
}

func (f *fakeRunner) fail(err error, args ...string) *fakeRunner {
	f.errs[strings.Join(args, " ")] = err
	return f
}

func (f *fakeRunner) Run(ctx context.Context, c Command) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	key := strings.Join(c.Args, " ")
	if err, ok := f.errs[key]; ok {
		return Result{}, err
	}
	if res, ok := f.results[key]; ok {
		return res, nil
	}
	return Result{ExitStatus: 1}, nil
}

// called returns the joined argv of every call in order.
func (f *fakeRunner) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = strings.Join(c.Args, " ")
	}
	return out
}

func (f *fakeRunner) count(args ...string) int {
	key := strings.Join(args, " ")
	n := 0
	for _, c := range f.called() {
		if c == key {
			n++
		}
	}
	return n
}

// recordingNotifier collects notifications.
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingNotifier) Notify(msg string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

// fakePower is an in-memory PowerController.
type fakePower struct {
	on       bool
	setCalls int
	err      error
}

func (p *fakePower) Powered(context.Context) (bool, error) { return p.on, p.err }

func (p *fakePower) SetPowered(_ context.Context, on bool) error {
	p.setCalls++
	p.on = on
	return nil
}

const scanCmd = "bluetoothctl --timeout 4 scan on"

func newTestSession(r Runner, n Notifier) *Session {
	return NewSession(Options{Runner: r, Notifier: n})
}
