// Package shell runs the external CLIs scanner-gke drives (kubectl, gcloud).
//
// Every failure, whether the binary could not be started or it exited
// nonzero, is reported as a *infraerr.ProcessExecutionError carrying the
// command line, exit code and captured stderr.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/scanner-research/scanner-gke/internal/infraerr"
)

// Runner executes a fixed binary with varying arguments.
type Runner interface {
	// Run executes the command, streaming its stdout, and fails on a nonzero exit.
	Run(ctx context.Context, args ...string) error

	// Output executes the command and returns its stdout.
	Output(ctx context.Context, args ...string) ([]byte, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	Binary string
	Env    []string
	Stdout io.Writer
}

// NewExecRunner returns a Runner for binary that inherits the process
// environment and streams to os.Stdout.
func NewExecRunner(binary string) *ExecRunner {
	return &ExecRunner{Binary: binary, Stdout: os.Stdout}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args ...string) error {
	return r.run(ctx, r.Stdout, args)
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	if err := r.run(ctx, &stdout, args); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

func (r *ExecRunner) run(ctx context.Context, stdout io.Writer, args []string) error {
	// #nosec G204
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	execErr := &infraerr.ProcessExecutionError{
		Command: append([]string{r.Binary}, args...),
		Stderr:  stderr.String(),
		Err:     err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		execErr.ExitCode = exitErr.ExitCode()
	}
	return execErr
}
