package handlers

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scanner-research/scanner-gke/internal/config"
	"github.com/scanner-research/scanner-gke/internal/metrics"
	"github.com/scanner-research/scanner-gke/internal/platform/gke"
	"github.com/scanner-research/scanner-gke/internal/session"
)

type fakeWorkflow struct {
	mu sync.Mutex

	session   *session.Session
	createErr error
	deleteErr error
	resizeErr error
	credsErr  error

	calls []string
	reset bool
	size  int
}

func (f *fakeWorkflow) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeWorkflow) Create(_ context.Context, reset bool) (*session.Session, error) {
	f.record("create")
	f.reset = reset
	return f.session, f.createErr
}

func (f *fakeWorkflow) Delete(_ context.Context) error {
	f.record("delete")
	return f.deleteErr
}

func (f *fakeWorkflow) Resize(_ context.Context, nodeCount int) error {
	f.record("resize")
	f.size = nodeCount
	return f.resizeErr
}

func (f *fakeWorkflow) GetCredentials(_ context.Context) error {
	f.record("get-credentials")
	return f.credsErr
}

type fakeBridge struct {
	mu sync.Mutex

	runErr    error
	runCalls  int
	detached  int
	teardowns int
}

// Run blocks until ctx ends unless runErr is set.
func (f *fakeBridge) Run(ctx context.Context) error {
	f.mu.Lock()
	f.runCalls++
	err := f.runErr
	f.mu.Unlock()

	if err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func (f *fakeBridge) Detach() *session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached++
	return nil
}

func (f *fakeBridge) Teardown() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teardowns++
	return nil
}

type fakeStater struct {
	state gke.ClusterState
	err   error
}

func (f *fakeStater) State(context.Context) (gke.ClusterState, error) {
	return f.state, f.err
}

type fakeStore struct {
	pid   int
	ok    bool
	alive bool
}

func (f *fakeStore) Load() (int, bool, error) { return f.pid, f.ok, nil }

func (f *fakeStore) Save(pid int) error {
	f.pid, f.ok = pid, true
	return nil
}

func (f *fakeStore) IsAlive(int) bool { return f.alive }

func (f *fakeStore) Clear(int) error {
	f.ok = false
	return nil
}

// stubs replaces every factory of the package for one test and restores
// them on cleanup. Tests using it must not run in parallel.
type stubs struct {
	cfg      *config.Config
	workflow *fakeWorkflow
	bridge   *fakeBridge
	stater   *fakeStater
	store    *fakeStore
	out      *bytes.Buffer
}

func stubHandlers(t *testing.T) *stubs {
	t.Helper()

	origLoad := loadConfig
	origRuntime := newRuntime
	origStater := newClusterStater
	origStore := newSessionStore
	origInteractive := isInteractive
	origConfirm := confirmDelete
	origOutput := statusOutput
	origNotify := notifyContext
	t.Cleanup(func() {
		loadConfig = origLoad
		newRuntime = origRuntime
		newClusterStater = origStater
		newSessionStore = origStore
		isInteractive = origInteractive
		confirmDelete = origConfirm
		statusOutput = origOutput
		notifyContext = origNotify
	})

	cfg, err := config.Parse([]byte("project: p\nzone: us-east1-d\nclusterId: cluster-1\ncontainerRepo: repo/scanner\n"))
	require.NoError(t, err)
	cfg.Bridge.LockFile = "/tmp/scanner-gke-test.pid"

	s := &stubs{
		cfg:      cfg,
		workflow: &fakeWorkflow{},
		bridge:   &fakeBridge{},
		stater:   &fakeStater{state: gke.StateRunning},
		store:    &fakeStore{},
		out:      &bytes.Buffer{},
	}

	loadConfig = func(string) (*config.Config, error) { return s.cfg, nil }
	newRuntime = func(context.Context, *config.Config) (*runtime, error) {
		return &runtime{workflow: s.workflow, bridge: s.bridge, metrics: metrics.New()}, nil
	}
	newClusterStater = func(context.Context, *config.Config) (ClusterStater, error) { return s.stater, nil }
	newSessionStore = func(*config.Config) session.Store { return s.store }
	isInteractive = func() bool { return false }
	confirmDelete = func(context.Context, string) (bool, error) {
		t.Fatal("unexpected confirmation prompt")
		return false, nil
	}
	statusOutput = s.out
	notifyContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithCancel(ctx)
	}

	return s
}
