package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scanner-research/scanner-gke/internal/config"
	"github.com/scanner-research/scanner-gke/internal/infraerr"
	"github.com/scanner-research/scanner-gke/internal/log"
	"github.com/scanner-research/scanner-gke/internal/metrics"
	"github.com/scanner-research/scanner-gke/internal/util/retry"
)

// DefaultStopTimeout bounds the graceful stop of a session before its
// process group is killed.
const DefaultStopTimeout = 10 * time.Second

const groupPollInterval = 100 * time.Millisecond

// PodResolver finds the pod to forward to.
type PodResolver interface {
	MasterPod(ctx context.Context, deployment string) (string, error)
}

// Session is an active bridge. Pid is the forward process id, which is
// also the process group of the session.
type Session struct {
	Pid     int
	PodName string

	forward Process
	proxy   Process

	forwardDone chan struct{}
	forwardErr  error

	stopOnce sync.Once
	stopErr  error
}

// Done is closed once the forward process has exited.
func (s *Session) Done() <-chan struct{} {
	return s.forwardDone
}

// reap is the session's only waiter on the forward process.
func (s *Session) reap() {
	s.forwardErr = s.forward.Wait()
	close(s.forwardDone)
}

// Supervisor owns the bridge session of this machine.
type Supervisor struct {
	cfg      *config.Config
	store    Store
	launcher Launcher
	pods     PodResolver
	metrics  *metrics.Recorder

	// StopTimeout bounds a graceful stop before the group is killed.
	StopTimeout time.Duration

	mu     sync.Mutex
	active *Session
}

// NewSupervisor creates a Supervisor. rec may be nil.
func NewSupervisor(cfg *config.Config, store Store, launcher Launcher, pods PodResolver, rec *metrics.Recorder) *Supervisor {
	return &Supervisor{
		cfg:         cfg,
		store:       store,
		launcher:    launcher,
		pods:        pods,
		metrics:     rec,
		StopTimeout: DefaultStopTimeout,
	}
}

// Active returns the session started by this supervisor, if any.
func (s *Supervisor) Active() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Start replaces any existing session with a new one forwarding to the
// current master pod.
func (s *Supervisor) Start(ctx context.Context) (*Session, error) {
	if err := s.Teardown(); err != nil {
		return nil, err
	}
	if err := s.terminatePrevious(ctx); err != nil {
		return nil, err
	}

	pod, err := s.pods.MasterPod(ctx, config.MasterDeployment)
	if err != nil {
		return nil, err
	}

	bridge := s.cfg.Bridge
	log.Infof("Forwarding localhost:%d to %s:%d", bridge.LocalPort, pod, bridge.MasterPort)

	forwardArgs := []string{"port-forward", pod, fmt.Sprintf("%d:%d", bridge.LocalPort, bridge.MasterPort)}
	forward, err := s.launcher.Launch(forwardArgs, 0)
	if err != nil {
		return nil, launchError(forwardArgs, err)
	}

	sess := &Session{
		Pid:         forward.Pid(),
		PodName:     pod,
		forward:     forward,
		forwardDone: make(chan struct{}),
	}
	go sess.reap()

	proxyArgs := []string{"proxy", "--address=" + bridge.ProxyAddress}
	proxy, err := s.launcher.Launch(proxyArgs, sess.Pid)
	if err != nil {
		_ = s.stop(sess)
		return nil, launchError(proxyArgs, err)
	}
	sess.proxy = proxy

	if err := s.store.Save(sess.Pid); err != nil {
		_ = s.stop(sess)
		return nil, err
	}

	s.mu.Lock()
	s.active = sess
	s.mu.Unlock()

	s.metrics.SessionStarted()
	log.WithFields(log.InfoLevel, log.Fields{"pid": sess.Pid, "pod": pod}, "port-forward session started")
	return sess, nil
}

// Run starts a session and blocks until ctx is cancelled or the forward
// process exits, then tears the session down. An unexpected exit of the
// forward process is returned as an error.
func (s *Supervisor) Run(ctx context.Context) error {
	sess, err := s.Start(ctx)
	if err != nil {
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Infof("Stopping port-forward session...")
	case <-sess.Done():
		runErr = fmt.Errorf("port-forward to %s exited: %w", sess.PodName, exitError(sess.forwardErr))
	}

	if err := s.Teardown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Teardown stops the active session, waits for both of its processes and
// clears the lock file if it still names the session. It does not take a
// context: once begun, the stop always completes. Calling it without an
// active session is a no-op.
func (s *Supervisor) Teardown() error {
	s.mu.Lock()
	sess := s.active
	s.active = nil
	s.mu.Unlock()

	if sess == nil {
		return nil
	}
	return s.stop(sess)
}

// Detach releases the active session without stopping it, leaving its
// processes running after this process exits.
func (s *Supervisor) Detach() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.active
	s.active = nil
	if sess != nil {
		log.Infof("Port-forward session %d left running; lock file %s", sess.Pid, s.cfg.Bridge.LockFile)
	}
	return sess
}

func (s *Supervisor) stop(sess *Session) error {
	sess.stopOnce.Do(func() {
		sess.stopErr = s.terminate(sess)
	})
	return sess.stopErr
}

func (s *Supervisor) terminate(sess *Session) error {
	log.Debugf("terminating port-forward session %d", sess.Pid)

	var errs []error
	if err := sess.forward.Terminate(); err != nil {
		errs = append(errs, fmt.Errorf("unable to stop port-forward: %w", err))
	}
	if sess.proxy != nil {
		if err := sess.proxy.Terminate(); err != nil {
			errs = append(errs, fmt.Errorf("unable to stop proxy: %w", err))
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		<-sess.forwardDone
		return nil
	})
	if sess.proxy != nil {
		g.Go(func() error {
			// exits caused by the stop signal are expected
			_ = sess.proxy.Wait()
			return nil
		})
	}

	exited := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(exited)
	}()

	select {
	case <-exited:
	case <-time.After(s.StopTimeout):
		log.Warnf("port-forward session %d did not stop after %s, killing it", sess.Pid, s.StopTimeout)
		if err := s.launcher.KillGroup(sess.Pid); err != nil {
			errs = append(errs, fmt.Errorf("unable to kill process group %d: %w", sess.Pid, err))
		}
		<-exited
	}

	if err := s.store.Clear(sess.Pid); err != nil {
		errs = append(errs, err)
	}

	s.metrics.SessionStopped()
	log.Infof("Port-forward session %d stopped", sess.Pid)
	return errors.Join(errs...)
}

// terminatePrevious stops the session recorded in the lock file by an
// earlier invocation. The entry names a process group: it is stale only
// once no member is left, so a proxy outliving its forward is still stopped.
// A live leader running another program means the pid was reused and the
// group is left alone.
func (s *Supervisor) terminatePrevious(ctx context.Context) error {
	pid, ok, err := s.store.Load()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if !s.launcher.GroupAlive(pid) {
		log.Debugf("lock file names process group %d which is no longer running", pid)
		return nil
	}
	if s.store.IsAlive(pid) && !s.launcher.Owns(pid) {
		log.Warnf("lock file names pid %d which now runs another program, not signalling it", pid)
		return nil
	}

	log.Infof("Terminating previous port-forward session (pid %d)", pid)
	if err := s.launcher.TerminateGroup(pid); err != nil {
		return fmt.Errorf("unable to terminate previous session %d: %w", pid, err)
	}

	resource := "exit of process group " + strconv.Itoa(pid)
	gone := func(context.Context) (bool, error) {
		return !s.launcher.GroupAlive(pid), nil
	}

	err = retry.Until(ctx, groupPollInterval, s.StopTimeout, resource, gone)
	if infraerr.IsProvisionTimeout(err) {
		log.Warnf("previous session %d ignored SIGTERM, killing it", pid)
		if err := s.launcher.KillGroup(pid); err != nil {
			return fmt.Errorf("unable to kill previous session %d: %w", pid, err)
		}
		err = retry.Until(ctx, groupPollInterval, s.StopTimeout, resource, gone)
	}
	if err != nil {
		return err
	}

	s.metrics.PreviousSessionTerminated()
	return nil
}

func launchError(args []string, err error) error {
	return &infraerr.ProcessExecutionError{Command: append([]string{"kubectl"}, args...), Err: err}
}

func exitError(err error) error {
	if err == nil {
		return errors.New("exited with status 0")
	}
	return err
}
