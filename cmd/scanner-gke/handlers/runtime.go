package handlers

import (
	"context"

	"github.com/spf13/afero"

	"github.com/scanner-research/scanner-gke/internal/config"
	"github.com/scanner-research/scanner-gke/internal/k8s"
	"github.com/scanner-research/scanner-gke/internal/manifests"
	"github.com/scanner-research/scanner-gke/internal/metrics"
	"github.com/scanner-research/scanner-gke/internal/orchestration"
	"github.com/scanner-research/scanner-gke/internal/platform/aws"
	"github.com/scanner-research/scanner-gke/internal/platform/gke"
	"github.com/scanner-research/scanner-gke/internal/session"
	"github.com/scanner-research/scanner-gke/internal/util/shell"
)

// Workflow matches *orchestration.Orchestrator.
type Workflow interface {
	Create(ctx context.Context, reset bool) (*session.Session, error)
	Delete(ctx context.Context) error
	Resize(ctx context.Context, nodeCount int) error
	GetCredentials(ctx context.Context) error
}

// BridgeSupervisor matches *session.Supervisor.
type BridgeSupervisor interface {
	Run(ctx context.Context) error
	Detach() *session.Session
	Teardown() error
}

// ClusterStater matches *gke.Controller.
type ClusterStater interface {
	State(ctx context.Context) (gke.ClusterState, error)
}

// runtime is the wired application for one command.
type runtime struct {
	workflow Workflow
	bridge   BridgeSupervisor
	metrics  *metrics.Recorder
}

// Factory function variables for the application graph - can be replaced in tests.
var (
	// newRuntime wires the GKE controller, kubectl client, renderer and
	// bridge supervisor for cfg.
	newRuntime = buildRuntime

	// newClusterStater creates a read-only view of the cluster state.
	newClusterStater = func(ctx context.Context, cfg *config.Config) (ClusterStater, error) {
		api, err := gke.NewRealClient(ctx)
		if err != nil {
			return nil, err
		}
		return gke.NewController(api, cfg, nil), nil
	}

	// newSessionStore opens the bridge lock file.
	newSessionStore = func(cfg *config.Config) session.Store {
		return session.NewFileStore(afero.NewOsFs(), cfg.Bridge.LockFile)
	}
)

func buildRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	timeouts := loadTimeouts()
	rec := metrics.New()
	fs := afero.NewOsFs()

	api, err := gke.NewRealClient(ctx)
	if err != nil {
		return nil, err
	}

	kube := k8s.NewClient(shell.NewExecRunner("kubectl"), fs, rec)
	kube.PodLookup = k8s.PodLookup{
		Retries:  timeouts.PodLookupRetries,
		Delay:    timeouts.PodLookupDelay,
		MaxDelay: timeouts.PodLookupMaxDelay,
	}

	supervisor := session.NewSupervisor(cfg, newSessionStore(cfg), session.NewExecLauncher("kubectl"), kube, rec)
	supervisor.StopTimeout = timeouts.ProcessStop

	orch := orchestration.New(cfg, timeouts, orchestration.Deps{
		Cluster:     gke.NewController(api, cfg, rec),
		Objects:     kube,
		Manifests:   manifests.NewRenderer(cfg, fs, aws.LoadStorageCredentials),
		Bridge:      supervisor,
		Credentials: orchestration.NewGcloudCredentials(shell.NewExecRunner("gcloud"), cfg),
	})

	return &runtime{workflow: orch, bridge: supervisor, metrics: rec}, nil
}
