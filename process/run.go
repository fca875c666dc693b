package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// DefaultGracePeriod is the SIGTERM to SIGKILL delay when none is set.
const DefaultGracePeriod = 5 * time.Second

// ErrNotFound is returned when the binary cannot be located.
var ErrNotFound = errors.New("process: executable not found")

// LookPath resolves binary via PATH. It wraps exec errors in ErrNotFound.
func LookPath(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, binary)
	}
	return path, nil
}

// Run starts cmd and waits for it. The returned Result is non-nil whenever
// the process was started, including on failure.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}

	grace := cmd.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // running configured binaries is the point
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	c.Stdin = cmd.Stdin

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = grace

	start := time.Now()
	err := c.Run()

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, exec.ErrNotFound):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, cmd.Binary)
	case ctx.Err() != nil:
		return result, fmt.Errorf("process: killed by context: %w", ctx.Err())
	case c.ProcessState == nil:
		return nil, fmt.Errorf("process: start %s: %w", cmd.Binary, err)
	default:
		return result, &ExitError{Binary: cmd.Binary, Code: result.ExitCode, Stderr: result.StderrTail(512), err: err}
	}
}

// ExitError reports a process that ran and exited unsuccessfully.
type ExitError struct {
	Binary string
	Code   int
	Stderr string
	err    error
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("process: %s exited with code %d: %s", e.Binary, e.Code, e.Stderr)
	}
	return fmt.Sprintf("process: %s exited with code %d", e.Binary, e.Code)
}

func (e *ExitError) Unwrap() error { return e.err }

// mergeEnv appends extra to the inherited environment. nil inherits as is.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil
	}
	return append(os.Environ(), extra...)
}
