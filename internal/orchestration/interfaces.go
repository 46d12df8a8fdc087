package orchestration

import (
	"context"
	"time"

	"github.com/scanner-research/scanner-gke/internal/k8s"
	"github.com/scanner-research/scanner-gke/internal/platform/gke"
	"github.com/scanner-research/scanner-gke/internal/session"
)

// ClusterController manages the GKE cluster. Implemented by *gke.Controller.
type ClusterController interface {
	ClusterRunning(ctx context.Context) (bool, error)
	CreateCluster(ctx context.Context, pools []gke.NodePool) error
	WaitUntilRunning(ctx context.Context, interval, timeout time.Duration) error
	DeleteCluster(ctx context.Context, interval time.Duration) error
	ResizeWorkers(ctx context.Context, nodeCount int64) error
}

// ObjectReconciler manages the Kubernetes objects. Implemented by *k8s.Client.
type ObjectReconciler interface {
	EnsureExists(ctx context.Context, ref k8s.ObjectRef, factory k8s.ManifestFactory) (bool, error)
	DeleteAllDeployments(ctx context.Context) error
	Scale(ctx context.Context, deployment string, replicas int) error
	WaitReady(ctx context.Context, name string, interval time.Duration) error
}

// ManifestSource renders objects on demand. Implemented by *manifests.Renderer.
type ManifestSource interface {
	Factory(ctx context.Context, ref k8s.ObjectRef) k8s.ManifestFactory
}

// Bridge starts the port-forward session. Implemented by *session.Supervisor.
type Bridge interface {
	Start(ctx context.Context) (*session.Session, error)
}

// CredentialFetcher points kubectl at the cluster.
type CredentialFetcher interface {
	GetCredentials(ctx context.Context) error
}
