// Package k8s reconciles the Scanner objects of the cluster through kubectl.
//
// Objects are listed with `kubectl get <kind> -o json` and decoded as
// unstructured lists, and created from manifests written to a transient file.
// The kubectl binary is reached through a shell.Runner so tests can replace it.
package k8s

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/scanner-research/scanner-gke/internal/metrics"
	"github.com/scanner-research/scanner-gke/internal/util/shell"
)

// Kind is a kubectl resource type.
type Kind string

const (
	KindSecret     Kind = "secrets"
	KindDeployment Kind = "deployments"
	KindService    Kind = "services"
	KindReplicaSet Kind = "replicasets"
	KindPod        Kind = "pods"
)

// ObjectRef identifies an object by kind and name within the namespace.
type ObjectRef struct {
	Kind Kind
	Name string
}

func (r ObjectRef) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.Name)
}

// PodLookup bounds the retries of the master pod lookup.
type PodLookup struct {
	Retries  int
	Delay    time.Duration
	MaxDelay time.Duration
}

// Client runs kubectl against the current context.
type Client struct {
	kubectl shell.Runner
	fs      afero.Fs
	metrics *metrics.Recorder

	PodLookup PodLookup
}

// NewClient creates a Client. Manifests are staged on fs, which must be
// the filesystem kubectl reads from in production. rec may be nil.
func NewClient(kubectl shell.Runner, fs afero.Fs, rec *metrics.Recorder) *Client {
	return &Client{
		kubectl: kubectl,
		fs:      fs,
		metrics: rec,
		PodLookup: PodLookup{
			Retries:  60,
			Delay:    time.Second,
			MaxDelay: 10 * time.Second,
		},
	}
}

// list returns every object of kind in the current namespace.
func (c *Client) list(ctx context.Context, kind Kind) (*unstructured.UnstructuredList, error) {
	out, err := c.kubectl.Output(ctx, "get", string(kind), "-o", "json")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	list := &unstructured.UnstructuredList{}
	if err := list.UnmarshalJSON(out); err != nil {
		return nil, fmt.Errorf("failed to decode %s list: %w", kind, err)
	}
	return list, nil
}

// DeleteAllDeployments deletes every deployment in the namespace.
func (c *Client) DeleteAllDeployments(ctx context.Context) error {
	if err := c.kubectl.Run(ctx, "delete", "deployments", "--all"); err != nil {
		return fmt.Errorf("failed to delete deployments: %w", err)
	}
	return nil
}

// Scale sets the replica count of a deployment.
func (c *Client) Scale(ctx context.Context, deployment string, replicas int) error {
	if replicas < 0 {
		return fmt.Errorf("invalid replica count %d", replicas)
	}
	err := c.kubectl.Run(ctx, "scale", "deployment/"+deployment, "--replicas="+strconv.Itoa(replicas))
	if err != nil {
		return fmt.Errorf("failed to scale %s: %w", deployment, err)
	}
	return nil
}
