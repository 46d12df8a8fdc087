package gke

import (
	"context"
	"fmt"

	container "google.golang.org/api/container/v1"
	"google.golang.org/api/option"
)

// ClustersAPI is the subset of the GKE cluster API used by the controller.
type ClustersAPI interface {
	List(ctx context.Context, project, zone string) ([]*container.Cluster, error)
	Get(ctx context.Context, project, zone, clusterID string) (*container.Cluster, error)
	Create(ctx context.Context, project, zone string, cluster *container.Cluster) error
	Delete(ctx context.Context, project, zone, clusterID string) error
	SetNodePoolSize(ctx context.Context, project, zone, clusterID, pool string, size int64) error
}

// RealClient implements ClustersAPI with the container/v1 REST client.
type RealClient struct {
	clusters *container.ProjectsZonesClustersService
}

// NewRealClient creates a GKE client. Without options it authenticates with
// application default credentials.
func NewRealClient(ctx context.Context, opts ...option.ClientOption) (*RealClient, error) {
	svc, err := container.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create container service: %w", err)
	}
	return &RealClient{clusters: svc.Projects.Zones.Clusters}, nil
}

// List implements ClustersAPI.
func (c *RealClient) List(ctx context.Context, project, zone string) ([]*container.Cluster, error) {
	resp, err := c.clusters.List(project, zone).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Clusters, nil
}

// Get implements ClustersAPI.
func (c *RealClient) Get(ctx context.Context, project, zone, clusterID string) (*container.Cluster, error) {
	return c.clusters.Get(project, zone, clusterID).Context(ctx).Do()
}

// Create implements ClustersAPI.
func (c *RealClient) Create(ctx context.Context, project, zone string, cluster *container.Cluster) error {
	_, err := c.clusters.Create(project, zone, &container.CreateClusterRequest{Cluster: cluster}).Context(ctx).Do()
	return err
}

// Delete implements ClustersAPI.
func (c *RealClient) Delete(ctx context.Context, project, zone, clusterID string) error {
	_, err := c.clusters.Delete(project, zone, clusterID).Context(ctx).Do()
	return err
}

// SetNodePoolSize implements ClustersAPI.
func (c *RealClient) SetNodePoolSize(ctx context.Context, project, zone, clusterID, pool string, size int64) error {
	req := &container.SetNodePoolSizeRequest{
		NodeCount:       size,
		ForceSendFields: []string{"NodeCount"},
	}
	_, err := c.clusters.NodePools.SetSize(project, zone, clusterID, pool, req).Context(ctx).Do()
	return err
}
