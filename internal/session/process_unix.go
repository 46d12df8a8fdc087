//go:build !windows

package session

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

func setProcessGroup(cmd *exec.Cmd, group int) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: group}
}

func terminateProcess(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}

func terminateGroup(group int) error {
	return signalGroup(group, syscall.SIGTERM)
}

func killGroup(group int) error {
	return signalGroup(group, syscall.SIGKILL)
}

func signalGroup(group int, sig syscall.Signal) error {
	if group <= 0 {
		return nil
	}
	if err := syscall.Kill(-group, sig); err != nil && !errors.Is(err, syscall.ESRCH) {
		return err
	}
	return nil
}

func groupAlive(group int) bool {
	if group <= 0 {
		return false
	}
	err := syscall.Kill(-group, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
