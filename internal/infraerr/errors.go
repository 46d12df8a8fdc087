// Package infraerr defines the error taxonomy shared by the cluster
// controller, the object reconciler and the session supervisor.
//
// Each error type wraps its cause and is matched with errors.As through the
// Is* helpers, so callers can wrap freely with fmt.Errorf("...: %w", err).
package infraerr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TransientInfraError is a network or cloud API failure. It is only retried
// inside explicit polling loops.
type TransientInfraError struct {
	Op  string
	Err error
}

func (e *TransientInfraError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientInfraError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientInfraError for operation op.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientInfraError{Op: op, Err: err}
}

// ProcessExecutionError reports a subprocess that could not be run or exited nonzero.
type ProcessExecutionError struct {
	Command  []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessExecutionError) Error() string {
	msg := fmt.Sprintf("command %q failed", strings.Join(e.Command, " "))
	if e.ExitCode != 0 {
		msg = fmt.Sprintf("%s with exit code %d", msg, e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, stderr)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ProcessExecutionError) Unwrap() error {
	return e.Err
}

// ProvisionTimeoutError reports a readiness poll that exceeded its budget.
type ProvisionTimeoutError struct {
	Resource string
	Timeout  time.Duration
	Err      error
}

func (e *ProvisionTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v waiting for %s", e.Timeout, e.Resource)
}

func (e *ProvisionTimeoutError) Unwrap() error {
	return e.Err
}

// AmbiguousResourceError reports a lookup that did not resolve to exactly one object.
type AmbiguousResourceError struct {
	Kind       string
	Owner      string
	Candidates []string
}

func (e *AmbiguousResourceError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no %s owned by %s", e.Kind, e.Owner)
	}
	return fmt.Sprintf("expected exactly one %s owned by %s, found %d: %s",
		e.Kind, e.Owner, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// IsTransient reports whether err is or wraps a TransientInfraError.
func IsTransient(err error) bool {
	var target *TransientInfraError
	return errors.As(err, &target)
}

// IsProcessExecution reports whether err is or wraps a ProcessExecutionError.
func IsProcessExecution(err error) bool {
	var target *ProcessExecutionError
	return errors.As(err, &target)
}

// IsProvisionTimeout reports whether err is or wraps a ProvisionTimeoutError.
func IsProvisionTimeout(err error) bool {
	var target *ProvisionTimeoutError
	return errors.As(err, &target)
}

// IsAmbiguous reports whether err is or wraps an AmbiguousResourceError.
func IsAmbiguous(err error) bool {
	var target *AmbiguousResourceError
	return errors.As(err, &target)
}
