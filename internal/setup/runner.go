package setup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"pysetup/internal/logger"
)

// Runner executes external commands. The bootstrap never calls os/exec
// directly so tests can substitute a recording fake.
type Runner interface {
	// Run executes name with args in dir, streaming its output to the user.
	Run(ctx context.Context, dir, name string, args ...string) error
	// Output executes name with args in dir and returns trimmed stdout.
	Output(ctx context.Context, dir, name string, args ...string) (string, error)
	// LookPath reports where name would be found on PATH.
	LookPath(name string) (string, error)
}

// CommandError is returned when an external command fails. Code carries the
// child's exit status so the CLI can exit with it.
type CommandError struct {
	Cmd  string
	Code int
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode returns the child's exit status, or 1 when it never ran to completion.
func (e *CommandError) ExitCode() int {
	if e.Code > 0 {
		return e.Code
	}
	return 1
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a Runner wired to the process stdout/stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	return wrapExecError(cmd.Args, cmd.Run())
}

func (r *ExecRunner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))

	out, err := cmd.Output()
	if err != nil {
		logger.Debug("[DEBUG] %s stderr: %s\n", name, stderr.String())
	}
	return strings.TrimSpace(string(out)), wrapExecError(cmd.Args, err)
}

func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func wrapExecError(argv []string, err error) error {
	if err == nil {
		return nil
	}
	ce := &CommandError{Cmd: strings.Join(argv, " "), Err: err}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		ce.Code = ee.ExitCode()
	}
	return ce
}
