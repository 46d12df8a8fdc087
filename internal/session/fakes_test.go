package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var errTerminated = errors.New("signal: terminated")

type fakeProcess struct {
	l     *fakeLauncher
	pid   int
	group int
	args  []string

	// stubborn processes ignore Terminate and only die on KillGroup
	stubborn bool

	once sync.Once
	done chan struct{}
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Terminate() error {
	p.l.record("terminate %d", p.pid)
	if !p.stubborn {
		p.exit()
	}
	return nil
}

func (p *fakeProcess) Wait() error {
	<-p.done
	return errTerminated
}

func (p *fakeProcess) exit() {
	p.once.Do(func() {
		p.l.record("exited %d", p.pid)
		close(p.done)
	})
}

func (p *fakeProcess) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// fakeLauncher tracks launched processes and the groups of earlier
// invocations that are still running.
type fakeLauncher struct {
	mu      sync.Mutex
	nextPid int
	events  []string
	procs   []*fakeProcess

	// external groups belong to sessions of another invocation
	external map[int]bool
	// stubbornExternal groups only exit on KillGroup
	stubbornExternal map[int]bool

	// foreign pids run an unrelated program
	foreign map[int]bool

	stubborn  bool
	launchErr map[string]error
}

func newFakeLauncher() *fakeLauncher {
	return &fakeLauncher{
		nextPid:          1000,
		external:         map[int]bool{},
		stubbornExternal: map[int]bool{},
		foreign:          map[int]bool{},
		launchErr:        map[string]error{},
	}
}

func (l *fakeLauncher) record(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *fakeLauncher) Launch(args []string, group int) (Process, error) {
	if err := l.launchErr[args[0]]; err != nil {
		return nil, err
	}

	l.mu.Lock()
	pid := l.nextPid
	l.nextPid++
	if group == 0 {
		group = pid
	}
	p := &fakeProcess{l: l, pid: pid, group: group, args: args, stubborn: l.stubborn, done: make(chan struct{})}
	l.procs = append(l.procs, p)
	l.mu.Unlock()

	l.record("launch %s %d group %d", args[0], pid, group)
	return p, nil
}

func (l *fakeLauncher) TerminateGroup(group int) error {
	l.record("terminate-group %d", group)
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.stubbornExternal[group] {
		delete(l.external, group)
	}
	return nil
}

func (l *fakeLauncher) KillGroup(group int) error {
	l.record("kill-group %d", group)
	l.mu.Lock()
	delete(l.external, group)
	var members []*fakeProcess
	for _, p := range l.procs {
		if p.group == group {
			members = append(members, p)
		}
	}
	l.mu.Unlock()

	for _, p := range members {
		p.exit()
	}
	return nil
}

func (l *fakeLauncher) GroupAlive(group int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.external[group] {
		return true
	}
	for _, p := range l.procs {
		if p.group == group && !p.exited() {
			return true
		}
	}
	return false
}

func (l *fakeLauncher) Owns(pid int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.foreign[pid]
}

func (l *fakeLauncher) eventList() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func (l *fakeLauncher) indexOf(prefix string) int {
	for i, e := range l.eventList() {
		if strings.HasPrefix(e, prefix) {
			return i
		}
	}
	return -1
}

// fakeStore is an in-memory Store whose liveness answers come from alive.
type fakeStore struct {
	mu       sync.Mutex
	pid      int
	recorded bool
	alive    func(pid int) bool
	saveErr  error
}

func (s *fakeStore) Load() (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pid, s.recorded, nil
}

func (s *fakeStore) Save(pid int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.pid, s.recorded = pid, true
	return nil
}

func (s *fakeStore) IsAlive(pid int) bool {
	if s.alive == nil {
		return false
	}
	return s.alive(pid)
}

func (s *fakeStore) Clear(pid int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recorded && s.pid == pid {
		s.pid, s.recorded = 0, false
	}
	return nil
}

type fakePods struct {
	pod   string
	err   error
	calls int
}

func (f *fakePods) MasterPod(_ context.Context, deployment string) (string, error) {
	f.calls++
	if deployment != "scanner-master" {
		return "", fmt.Errorf("unexpected deployment %s", deployment)
	}
	return f.pod, f.err
}
