package session

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"
)

// commLen is the length the kernel truncates process names to.
const commLen = 15

// Process is a launched child process.
type Process interface {
	Pid() int

	// Terminate asks the process to stop. A process that already exited is not an error.
	Terminate() error

	// Wait blocks until the process exits. It must be called at most once.
	Wait() error
}

// Launcher starts bridge processes and signals process groups.
type Launcher interface {
	// Launch starts args in process group group, or as the leader of a new
	// group when group is 0.
	Launch(args []string, group int) (Process, error)

	// TerminateGroup sends a graceful stop to every process of group. A group
	// that no longer exists is not an error.
	TerminateGroup(group int) error

	// KillGroup forcibly stops every process of group.
	KillGroup(group int) error

	// GroupAlive reports whether any process of group is still running.
	GroupAlive(group int) bool

	// Owns reports whether the running process pid executes the launched binary.
	Owns(pid int) bool
}

// ExecLauncher launches kubectl with os/exec.
type ExecLauncher struct {
	Binary string
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecLauncher returns a Launcher for binary writing to the terminal.
func NewExecLauncher(binary string) *ExecLauncher {
	return &ExecLauncher{Binary: binary, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Launch implements Launcher.
func (l *ExecLauncher) Launch(args []string, group int) (Process, error) {
	// #nosec G204
	cmd := exec.Command(l.Binary, args...)
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	setProcessGroup(cmd, group)

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}

// TerminateGroup implements Launcher.
func (l *ExecLauncher) TerminateGroup(group int) error {
	return terminateGroup(group)
}

// KillGroup implements Launcher.
func (l *ExecLauncher) KillGroup(group int) error {
	return killGroup(group)
}

// GroupAlive implements Launcher.
func (l *ExecLauncher) GroupAlive(group int) bool {
	return groupAlive(group)
}

// Owns implements Launcher.
func (l *ExecLauncher) Owns(pid int) bool {
	p, err := ps.FindProcess(pid)
	if err != nil || p == nil {
		return false
	}
	return sameExecutable(p.Executable(), filepath.Base(l.Binary))
}

func sameExecutable(running, binary string) bool {
	running = strings.TrimSuffix(running, ".exe")
	binary = strings.TrimSuffix(binary, ".exe")
	if running == binary {
		return true
	}
	return len(running) == commLen && strings.HasPrefix(binary, running)
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Terminate() error {
	if err := terminateProcess(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (p *execProcess) Wait() error {
	return p.cmd.Wait()
}
