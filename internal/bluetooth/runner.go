package bluetooth

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/storskegg/bt-menu/internal/logging"
)

var runnerLog = logging.ForComponent(logging.CompRunner)

// killGrace is how long a process gets after SIGTERM before it is killed.
const killGrace = 500 * time.Millisecond

// Command describes one invocation of an external utility.
type Command struct {
	Args []string

	// Timeout bounds wall-clock run time. Zero means no bound beyond ctx.
	Timeout time.Duration

	// Stdin is fed to the process when non-empty.
	Stdin string

	// CombineOutput sends stderr into Result.Stdout instead of Result.Stderr.
	CombineOutput bool
}

// Result is the captured outcome of a Command.
type Result struct {
	Stdout     string
	Stderr     string
	ExitStatus int

	// TimedOut is set when the Timeout expired and the process was terminated.
	// Stdout still holds whatever was produced before termination.
	TimedOut bool
}

// OK reports a clean zero exit.
func (r Result) OK() bool {
	return r.ExitStatus == 0 && !r.TimedOut
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands as OS processes.
type ExecRunner struct{}

// Run spawns cmd and waits for it. A non-zero exit is reported through
// Result.ExitStatus, an expired Timeout through Result.TimedOut. Only spawn
// failures return an *ExecutionError.
func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	if len(c.Args) == 0 {
		return Result{}, &ExecutionError{Err: ErrEmptyCommand}
	}

	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.Args[0], c.Args[1:]...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = killGrace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if c.CombineOutput {
		cmd.Stderr = &stdout
	} else {
		cmd.Stderr = &stderr
	}
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}

	start := time.Now()
	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	switch {
	case err == nil:
	case cmd.ProcessState == nil:
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		runnerLog.Debug("spawn_failed", "args", c.Args, "error", err)
		return res, &ExecutionError{Args: c.Args, Err: err}
	case ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.ExitStatus = -1
	case ctx.Err() != nil:
		return res, ctx.Err()
	default:
		// ErrWaitDelay and *exec.ExitError both leave ProcessState populated.
		res.ExitStatus = cmd.ProcessState.ExitCode()
	}

	runnerLog.Debug("command_done",
		"args", c.Args,
		"duration", time.Since(start),
		"exit", res.ExitStatus,
		"timed_out", res.TimedOut,
		"bytes", len(res.Stdout))
	return res, nil
}
