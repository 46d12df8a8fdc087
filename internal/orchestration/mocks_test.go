package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/scanner-research/scanner-gke/internal/k8s"
	"github.com/scanner-research/scanner-gke/internal/platform/gke"
	"github.com/scanner-research/scanner-gke/internal/session"
)

// world is a shared call log and object store for the fakes below.
type world struct {
	mu      sync.Mutex
	calls   []string
	running bool
	objects map[k8s.ObjectRef]bool
	pools   []gke.NodePool
	errs    map[string]error
}

func newWorld() *world {
	return &world{objects: map[k8s.ObjectRef]bool{}, errs: map[string]error{}}
}

func (w *world) record(format string, args ...interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	call := fmt.Sprintf(format, args...)
	w.calls = append(w.calls, call)
	return w.errs[call]
}

func (w *world) callList() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

func (w *world) put(kind k8s.Kind, names ...string) {
	for _, n := range names {
		w.objects[k8s.ObjectRef{Kind: kind, Name: n}] = true
	}
}

type fakeCluster struct{ w *world }

func (f fakeCluster) ClusterRunning(context.Context) (bool, error) {
	return f.w.running, nil
}

func (f fakeCluster) CreateCluster(_ context.Context, pools []gke.NodePool) error {
	f.w.pools = pools
	return f.w.record("create-cluster")
}

func (f fakeCluster) WaitUntilRunning(context.Context, time.Duration, time.Duration) error {
	if err := f.w.record("wait-cluster"); err != nil {
		return err
	}
	f.w.running = true
	return nil
}

func (f fakeCluster) DeleteCluster(context.Context, time.Duration) error {
	if !f.w.running {
		return nil
	}
	f.w.running = false
	return f.w.record("delete-cluster")
}

func (f fakeCluster) ResizeWorkers(_ context.Context, n int64) error {
	return f.w.record("resize-pool %d", n)
}

type fakeObjects struct{ w *world }

func (f fakeObjects) EnsureExists(_ context.Context, ref k8s.ObjectRef, factory k8s.ManifestFactory) (bool, error) {
	if f.w.objects[ref] {
		return false, nil
	}
	if _, err := factory(); err != nil {
		return false, err
	}
	if err := f.w.record("create %s", ref); err != nil {
		return false, err
	}
	f.w.objects[ref] = true
	return true, nil
}

func (f fakeObjects) DeleteAllDeployments(context.Context) error {
	for ref := range f.w.objects {
		if ref.Kind == k8s.KindDeployment {
			delete(f.w.objects, ref)
		}
	}
	return f.w.record("delete-deployments")
}

func (f fakeObjects) Scale(_ context.Context, deployment string, replicas int) error {
	return f.w.record("scale %s %d", deployment, replicas)
}

func (f fakeObjects) WaitReady(_ context.Context, name string, _ time.Duration) error {
	return f.w.record("wait-ready %s", name)
}

type fakeManifests struct{}

func (fakeManifests) Factory(_ context.Context, ref k8s.ObjectRef) k8s.ManifestFactory {
	return func() (runtime.Object, error) {
		return &corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: ref.Name}}, nil
	}
}

type fakeBridge struct{ w *world }

func (f fakeBridge) Start(context.Context) (*session.Session, error) {
	if err := f.w.record("start-bridge"); err != nil {
		return nil, err
	}
	return &session.Session{Pid: 4242, PodName: "scanner-master-abc-x1"}, nil
}

type fakeCreds struct{ w *world }

func (f fakeCreds) GetCredentials(context.Context) error {
	return f.w.record("get-credentials")
}

type recordingObserver struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingObserver) Event(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}
