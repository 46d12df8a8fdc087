package orchestration

import (
	"context"
	"fmt"

	"github.com/scanner-research/scanner-gke/internal/config"
	"github.com/scanner-research/scanner-gke/internal/k8s"
	"github.com/scanner-research/scanner-gke/internal/log"
	"github.com/scanner-research/scanner-gke/internal/platform/gke"
	"github.com/scanner-research/scanner-gke/internal/session"
)

// Orchestrator runs the create, delete and resize workflows.
type Orchestrator struct {
	cfg      *config.Config
	timeouts *config.Timeouts

	cluster   ClusterController
	objects   ObjectReconciler
	manifests ManifestSource
	bridge    Bridge
	creds     CredentialFetcher
	observer  Observer
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Cluster     ClusterController
	Objects     ObjectReconciler
	Manifests   ManifestSource
	Bridge      Bridge
	Credentials CredentialFetcher
	Observer    Observer
}

// New creates an Orchestrator. A nil Observer logs through the process logger.
func New(cfg *config.Config, timeouts *config.Timeouts, deps Deps) *Orchestrator {
	observer := deps.Observer
	if observer == nil {
		observer = NewLogObserver(map[string]string{"cluster": cfg.ClusterID})
	}
	return &Orchestrator{
		cfg:       cfg,
		timeouts:  timeouts,
		cluster:   deps.Cluster,
		objects:   deps.Objects,
		manifests: deps.Manifests,
		bridge:    deps.Bridge,
		creds:     deps.Credentials,
		observer:  observer,
	}
}

// Create brings the cluster and the Scanner deployment up. When reset is
// set every deployment is deleted first and recreated. The returned
// session is the bridge started for a freshly created master, or nil.
func (o *Orchestrator) Create(ctx context.Context, reset bool) (*session.Session, error) {
	var sess *session.Session

	phases := []Phase{
		{Name: "cluster", Run: o.ensureCluster},
		{Name: "credentials", Run: o.creds.GetCredentials},
		{Name: "reset", Run: o.resetDeployments, Skip: !reset},
		{Name: "secrets", Run: o.ensureSecrets},
		{Name: "master", Run: func(ctx context.Context) error {
			var err error
			sess, err = o.ensureMaster(ctx)
			return err
		}},
		{Name: "service", Run: func(ctx context.Context) error {
			return o.ensure(ctx, "service", k8s.ObjectRef{Kind: k8s.KindService, Name: config.MasterService})
		}},
		{Name: "workers", Run: func(ctx context.Context) error {
			return o.ensure(ctx, "workers", k8s.ObjectRef{Kind: k8s.KindDeployment, Name: config.WorkerDeployment})
		}},
	}

	if err := RunPhases(ctx, o.observer, phases); err != nil {
		return sess, err
	}
	log.Infof("Cluster %s is ready", o.cfg.ClusterID)
	return sess, nil
}

// Delete deletes the cluster. Deleting an absent cluster succeeds.
func (o *Orchestrator) Delete(ctx context.Context) error {
	logResource(o.observer, EventResourceDeleting, "delete", "cluster", o.cfg.ClusterID)
	if err := o.cluster.DeleteCluster(ctx, o.timeouts.PollInterval); err != nil {
		return err
	}
	logResource(o.observer, EventResourceDeleted, "delete", "cluster", o.cfg.ClusterID)
	return nil
}

// Resize sets the worker node pool to nodeCount nodes and scales the worker
// deployment to the same number of replicas. The pool is resized first so
// it has capacity for the replicas.
func (o *Orchestrator) Resize(ctx context.Context, nodeCount int) error {
	if nodeCount < 0 {
		return fmt.Errorf("invalid size %d: must not be negative", nodeCount)
	}
	return RunPhases(ctx, o.observer, []Phase{
		{Name: "node pool", Run: func(ctx context.Context) error {
			return o.cluster.ResizeWorkers(ctx, int64(nodeCount))
		}},
		{Name: "deployment", Run: func(ctx context.Context) error {
			return o.objects.Scale(ctx, config.WorkerDeployment, nodeCount)
		}},
	})
}

// GetCredentials fetches kubectl credentials for the cluster.
func (o *Orchestrator) GetCredentials(ctx context.Context) error {
	return o.creds.GetCredentials(ctx)
}

func (o *Orchestrator) ensureCluster(ctx context.Context) error {
	running, err := o.cluster.ClusterRunning(ctx)
	if err != nil {
		return err
	}
	if running {
		logResource(o.observer, EventResourceExists, "cluster", "cluster", o.cfg.ClusterID)
		return nil
	}

	if err := o.cluster.CreateCluster(ctx, gke.NodePools(o.cfg)); err != nil {
		return err
	}
	if err := o.cluster.WaitUntilRunning(ctx, o.timeouts.PollInterval, o.timeouts.ClusterCreate); err != nil {
		return err
	}
	logResource(o.observer, EventResourceCreated, "cluster", "cluster", o.cfg.ClusterID)
	return nil
}

func (o *Orchestrator) resetDeployments(ctx context.Context) error {
	logResource(o.observer, EventResourceDeleting, "reset", "deployments", "all")
	return o.objects.DeleteAllDeployments(ctx)
}

func (o *Orchestrator) ensureSecrets(ctx context.Context) error {
	for _, name := range []string{config.GoogleKeySecret, config.StorageKeySecret} {
		if err := o.ensure(ctx, "secrets", k8s.ObjectRef{Kind: k8s.KindSecret, Name: name}); err != nil {
			return err
		}
	}
	return nil
}

// ensureMaster only waits for the master and starts the bridge when the
// deployment was created by this call.
func (o *Orchestrator) ensureMaster(ctx context.Context) (*session.Session, error) {
	ref := k8s.ObjectRef{Kind: k8s.KindDeployment, Name: config.MasterDeployment}
	created, err := o.ensureCreated(ctx, "master", ref)
	if err != nil || !created {
		return nil, err
	}

	if err := o.objects.WaitReady(ctx, config.MasterDeployment, o.timeouts.PollInterval); err != nil {
		return nil, err
	}
	return o.bridge.Start(ctx)
}

func (o *Orchestrator) ensure(ctx context.Context, phase string, ref k8s.ObjectRef) error {
	_, err := o.ensureCreated(ctx, phase, ref)
	return err
}

func (o *Orchestrator) ensureCreated(ctx context.Context, phase string, ref k8s.ObjectRef) (bool, error) {
	created, err := o.objects.EnsureExists(ctx, ref, o.manifests.Factory(ctx, ref))
	if err != nil {
		return false, err
	}
	event := EventResourceExists
	if created {
		event = EventResourceCreated
	}
	logResource(o.observer, event, phase, string(ref.Kind), ref.Name)
	return created, nil
}
