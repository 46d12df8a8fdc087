package orchestration

import (
	"context"
	"fmt"

	"github.com/scanner-research/scanner-gke/internal/config"
	"github.com/scanner-research/scanner-gke/internal/k8s"
	"github.com/scanner-research/scanner-gke/internal/log"
	"github.com/scanner-research/scanner-gke/internal/util/shell"
)

// GcloudCredentials fetches cluster credentials with
// `gcloud container clusters get-credentials`.
type GcloudCredentials struct {
	gcloud shell.Runner
	cfg    *config.Config

	// Kubeconfig is the file gcloud writes to; empty means the default chain.
	Kubeconfig string
}

// NewGcloudCredentials creates a CredentialFetcher for cfg.
func NewGcloudCredentials(gcloud shell.Runner, cfg *config.Config) *GcloudCredentials {
	return &GcloudCredentials{gcloud: gcloud, cfg: cfg}
}

// GetCredentials implements CredentialFetcher. It also checks that the
// fetched context became the current one, since every kubectl call
// afterwards relies on it.
func (g *GcloudCredentials) GetCredentials(ctx context.Context) error {
	log.Infof("Fetching credentials for cluster %s", g.cfg.ClusterID)

	err := g.gcloud.Run(ctx, "container", "clusters", "get-credentials", g.cfg.ClusterID,
		"--project", g.cfg.Project, "--zone", g.cfg.Zone)
	if err != nil {
		return fmt.Errorf("failed to get cluster credentials: %w", err)
	}
	return k8s.VerifyContext(g.Kubeconfig, g.cfg.KubeContext())
}
