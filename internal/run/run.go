// Package run executes external commands with per-invocation timeouts.
//
// Everything hookgate shells out to (git, the package manager, the test
// runner, notify-send) goes through the Runner interface so tests can swap
// in a scripted fake.
package run

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/chmouel/hookgate/internal/log"
)

// LookupPath is used to find executables in PATH. It's exposed as a package
// variable so tests can mock it and avoid depending on system binaries
// being installed.
var LookupPath = exec.LookPath

// maxCapturedBytes bounds how much subprocess output is retained. Hook
// diagnostics only ever show the first few lines.
const maxCapturedBytes = 64 * 1024

// Spec describes a single command invocation. Argv[0] is the command name;
// shell-string execution is not supported.
type Spec struct {
	Argv    []string
	Dir     string
	Env     []string // appended to the inherited environment
	Timeout time.Duration
}

// Result captures the outcome of a command invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	Err      error // spawn failures; nil for a clean non-zero exit
}

// Ok reports whether the command ran and exited zero.
func (r Result) Ok() bool {
	return r.Err == nil && !r.TimedOut && r.ExitCode == 0
}

// Output returns stderr if non-empty, otherwise stdout. Matches what hook
// diagnostics show for a failed check.
func (r Result) Output() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	return r.Stdout
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, spec Spec) Result
}

// Exec is the production Runner backed by os/exec.
type Exec struct{}

// Run executes spec, enforcing spec.Timeout when set. A timeout is reported
// via Result.TimedOut; callers treat it like any other failed attempt.
func (Exec) Run(ctx context.Context, spec Spec) Result {
	if len(spec.Argv) == 0 {
		return Result{ExitCode: -1, Err: errors.New("empty argv")}
	}

	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	// #nosec G204 -- argv comes from configuration and internal logic, never
	// from shell-interpolated user input
	cmd := exec.CommandContext(ctx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &capWriter{buf: &stdout}
	cmd.Stderr = &capWriter{buf: &stderr}

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.ExitCode = -1
	case err == nil:
		res.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.Err = err
		}
	}

	log.Printf("run: %v dir=%q exit=%d timeout=%v", spec.Argv, spec.Dir, res.ExitCode, res.TimedOut)
	return res
}

// capWriter truncates writes once maxCapturedBytes is reached. The
// subprocess keeps running; only capture stops.
type capWriter struct {
	buf *bytes.Buffer
}

func (w *capWriter) Write(p []byte) (int, error) {
	if w.buf.Len() >= maxCapturedBytes {
		return len(p), nil
	}
	if room := maxCapturedBytes - w.buf.Len(); len(p) > room {
		w.buf.Write(p[:room])
		return len(p), nil
	}
	return w.buf.Write(p)
}
