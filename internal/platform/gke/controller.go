package gke

import (
	"context"
	"fmt"
	"time"

	container "google.golang.org/api/container/v1"

	"github.com/scanner-research/scanner-gke/internal/config"
	"github.com/scanner-research/scanner-gke/internal/infraerr"
	"github.com/scanner-research/scanner-gke/internal/log"
	"github.com/scanner-research/scanner-gke/internal/metrics"
	"github.com/scanner-research/scanner-gke/internal/util/retry"
)

// DefaultPollInterval is the interval between cluster status polls.
const DefaultPollInterval = 5 * time.Second

const (
	// conflictRetries bounds the retries of a request rejected because
	// another operation is running on the cluster.
	conflictRetries      = 5
	defaultConflictDelay = 2 * time.Second
)

// Controller ensures the configured cluster exists and is running.
type Controller struct {
	api     ClustersAPI
	cfg     *config.Config
	metrics *metrics.Recorder

	// conflictDelay is the first wait before retrying a 409 response.
	conflictDelay time.Duration
}

// NewController creates a controller for the cluster described by cfg.
// rec may be nil.
func NewController(api ClustersAPI, cfg *config.Config, rec *metrics.Recorder) *Controller {
	return &Controller{api: api, cfg: cfg, metrics: rec, conflictDelay: defaultConflictDelay}
}

// retryOnConflict runs op again while GKE answers 409, which it does while an
// earlier operation on the same cluster is still in progress.
func (c *Controller) retryOnConflict(ctx context.Context, what string, op func() error) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		err := op()
		if IsConflict(err) {
			log.Debugf("%s: cluster %s is busy with another operation, retrying", what, c.cfg.ClusterID)
		}
		return err
	},
		retry.WithMaxRetries(conflictRetries),
		retry.WithInitialDelay(c.conflictDelay),
		retry.WithRetryIf(IsConflict),
	)
}

// find lists the clusters of the configured project and zone and returns the
// one named ClusterID, or nil.
func (c *Controller) find(ctx context.Context) (*container.Cluster, error) {
	clusters, err := c.api.List(ctx, c.cfg.Project, c.cfg.Zone)
	if err != nil {
		return nil, infraerr.Transient("list clusters", err)
	}
	for _, cluster := range clusters {
		if cluster != nil && cluster.Name == c.cfg.ClusterID {
			return cluster, nil
		}
	}
	return nil, nil
}

// ClusterRunning reports whether the cluster is present, whatever its status.
func (c *Controller) ClusterRunning(ctx context.Context) (bool, error) {
	cluster, err := c.find(ctx)
	if err != nil {
		return false, err
	}
	return cluster != nil, nil
}

// State derives the current lifecycle state of the cluster.
func (c *Controller) State(ctx context.Context) (ClusterState, error) {
	cluster, err := c.find(ctx)
	if err != nil {
		return StateUnknown, err
	}
	if cluster == nil {
		return StateAbsent, nil
	}
	return StateFromStatus(cluster.Status), nil
}

// CreateCluster requests a cluster with exactly pools. It returns once the
// request is accepted and does not wait for readiness.
func (c *Controller) CreateCluster(ctx context.Context, pools []NodePool) error {
	log.Infof("Creating cluster %s in %s/%s with %d node pools", c.cfg.ClusterID, c.cfg.Project, c.cfg.Zone, len(pools))

	if err := c.api.Create(ctx, c.cfg.Project, c.cfg.Zone, clusterSpec(c.cfg, pools)); err != nil {
		return infraerr.Transient("create cluster", err)
	}
	return nil
}

// WaitUntilRunning polls the cluster status until it is RUNNING. A zero
// timeout polls until ctx ends. "Not found" is treated as not ready yet;
// any other API error ends the wait.
func (c *Controller) WaitUntilRunning(ctx context.Context, interval, timeout time.Duration) error {
	log.Infof("Waiting for cluster %s to report RUNNING...", c.cfg.ClusterID)

	resource := fmt.Sprintf("cluster %s", c.cfg.ClusterID)
	return retry.Until(ctx, interval, timeout, resource, func(ctx context.Context) (bool, error) {
		c.metrics.StatusPolled("cluster")

		cluster, err := c.api.Get(ctx, c.cfg.Project, c.cfg.Zone, c.cfg.ClusterID)
		if err != nil {
			if IsNotFound(err) {
				return false, nil
			}
			return false, infraerr.Transient("get cluster", err)
		}

		switch cluster.Status {
		case statusRunning:
			return true, nil
		case statusError:
			return false, fmt.Errorf("cluster %s entered status ERROR: %s", c.cfg.ClusterID, cluster.StatusMessage)
		default:
			log.Debugf("Cluster %s status: %s", c.cfg.ClusterID, cluster.Status)
			return false, nil
		}
	})
}

// DeleteCluster deletes the cluster and waits until it no longer appears in
// the listing. Deleting an absent cluster is a no-op success.
func (c *Controller) DeleteCluster(ctx context.Context, interval time.Duration) error {
	present, err := c.ClusterRunning(ctx)
	if err != nil {
		return err
	}
	if !present {
		log.Infof("Cluster %s does not exist, nothing to delete", c.cfg.ClusterID)
		return nil
	}

	err = c.retryOnConflict(ctx, "delete cluster", func() error {
		return c.api.Delete(ctx, c.cfg.Project, c.cfg.Zone, c.cfg.ClusterID)
	})
	if err != nil {
		if !IsNotFound(err) {
			return infraerr.Transient("delete cluster", err)
		}
	}

	log.Infof("Sent delete request for cluster %s. Waiting for deletion...", c.cfg.ClusterID)
	return retry.Until(ctx, interval, 0, fmt.Sprintf("deletion of cluster %s", c.cfg.ClusterID), func(ctx context.Context) (bool, error) {
		c.metrics.StatusPolled("cluster")
		present, err := c.ClusterRunning(ctx)
		if err != nil {
			return false, err
		}
		return !present, nil
	})
}

// ResizeWorkers sets the size of the worker node pool.
func (c *Controller) ResizeWorkers(ctx context.Context, nodeCount int64) error {
	log.Infof("Resizing node pool %s of cluster %s to %d nodes", config.WorkerPool, c.cfg.ClusterID, nodeCount)

	err := c.retryOnConflict(ctx, "resize node pool", func() error {
		return c.api.SetNodePoolSize(ctx, c.cfg.Project, c.cfg.Zone, c.cfg.ClusterID, config.WorkerPool, nodeCount)
	})
	if err != nil {
		return infraerr.Transient("resize node pool", err)
	}
	return nil
}
