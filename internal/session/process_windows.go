//go:build windows

package session

import (
	"os"
	"os/exec"

	"github.com/shirou/gopsutil/process"
)

// Windows has no process groups addressable by pid; a group is its leader.

func setProcessGroup(_ *exec.Cmd, _ int) {}

func terminateProcess(p *os.Process) error {
	return p.Kill()
}

func terminateGroup(group int) error {
	return killGroup(group)
}

func killGroup(group int) error {
	if !groupAlive(group) {
		return nil
	}
	p, err := process.NewProcess(int32(group))
	if err != nil {
		return nil
	}
	return p.Kill()
}

func groupAlive(group int) bool {
	exists, err := process.PidExists(int32(group))
	return err == nil && exists
}
