package session

import (
	ps "github.com/mitchellh/go-ps"
)

// Status describes the session recorded in the lock file.
type Status struct {
	Recorded   bool
	Pid        int
	Alive      bool
	Executable string
}

// Describe inspects the lock file entry of store without changing it.
func Describe(store Store) (Status, error) {
	pid, ok, err := store.Load()
	if err != nil || !ok {
		return Status{}, err
	}

	st := Status{Recorded: true, Pid: pid, Alive: store.IsAlive(pid)}
	if !st.Alive {
		return st, nil
	}

	p, err := ps.FindProcess(pid)
	if err == nil && p != nil {
		st.Executable = p.Executable()
	}
	return st, nil
}
