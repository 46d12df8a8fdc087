package gke

import (
	container "google.golang.org/api/container/v1"

	"github.com/scanner-research/scanner-gke/internal/config"
)

// DefaultOAuthScopes are granted to every node.
var DefaultOAuthScopes = []string{
	"https://www.googleapis.com/auth/compute",
	"https://www.googleapis.com/auth/devstorage.read_only",
	"https://www.googleapis.com/auth/logging.write",
	"https://www.googleapis.com/auth/monitoring.write",
	"https://www.googleapis.com/auth/servicecontrol",
	"https://www.googleapis.com/auth/service.management.readonly",
	"https://www.googleapis.com/auth/trace.append",
}

// NodePool describes one node pool of a create request.
type NodePool struct {
	Name             string
	InitialNodeCount int64
	MachineType      string
	ImageType        string
	DiskSizeGB       int64
	OAuthScopes      []string

	// Autoscaling is nil for fixed-size pools.
	Autoscaling *Autoscaling
}

// Autoscaling bounds of a node pool.
type Autoscaling struct {
	MinNodes int64
	MaxNodes int64
}

// NodePools returns the canonical topology: a fixed-size master pool and an
// autoscaling worker pool.
func NodePools(cfg *config.Config) []NodePool {
	return []NodePool{
		{
			Name:             config.MasterPool,
			InitialNodeCount: cfg.Master.NodeCount,
			MachineType:      cfg.Master.MachineType,
			ImageType:        cfg.Master.ImageType,
			DiskSizeGB:       cfg.Master.DiskSizeGB,
			OAuthScopes:      DefaultOAuthScopes,
		},
		{
			Name:             config.WorkerPool,
			InitialNodeCount: cfg.Workers.NodeCount,
			MachineType:      cfg.Workers.MachineType,
			ImageType:        cfg.Workers.ImageType,
			DiskSizeGB:       cfg.Workers.DiskSizeGB,
			OAuthScopes:      DefaultOAuthScopes,
			Autoscaling: &Autoscaling{
				MinNodes: cfg.Workers.MinNodes,
				MaxNodes: cfg.Workers.MaxNodes,
			},
		},
	}
}

func (p NodePool) toAPI() *container.NodePool {
	np := &container.NodePool{
		Name:             p.Name,
		InitialNodeCount: p.InitialNodeCount,
		Config: &container.NodeConfig{
			MachineType: p.MachineType,
			ImageType:   p.ImageType,
			DiskSizeGb:  p.DiskSizeGB,
			OauthScopes: p.OAuthScopes,
			Preemptible: false,
		},
	}
	if p.Autoscaling != nil {
		np.Autoscaling = &container.NodePoolAutoscaling{
			Enabled:      true,
			MinNodeCount: p.Autoscaling.MinNodes,
			MaxNodeCount: p.Autoscaling.MaxNodes,
			// a zero minimum is meaningful and must not be dropped
			ForceSendFields: []string{"MinNodeCount"},
		}
	}
	return np
}

// clusterSpec builds the create request body for cfg with exactly pools.
func clusterSpec(cfg *config.Config, pools []NodePool) *container.Cluster {
	apiPools := make([]*container.NodePool, 0, len(pools))
	for _, p := range pools {
		apiPools = append(apiPools, p.toAPI())
	}

	return &container.Cluster{
		Name:              cfg.ClusterID,
		Network:           "default",
		LoggingService:    "logging.googleapis.com",
		MonitoringService: "none",
		NodePools:         apiPools,
		MasterAuth: &container.MasterAuth{
			ClientCertificateConfig: &container.ClientCertificateConfig{
				IssueClientCertificate: true,
			},
		},
	}
}
