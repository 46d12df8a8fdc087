package k8s

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/scanner-research/scanner-gke/internal/infraerr"
	"github.com/scanner-research/scanner-gke/internal/log"
	"github.com/scanner-research/scanner-gke/internal/util/retry"
)

// MasterPod resolves the name of the single running pod of deployment.
//
// The pod is found through its owner chain: the replica set owned by the
// deployment, then the pod owned by that replica set. While a rollout is in
// progress or the pod is not scheduled yet the lookup is ambiguous and is
// retried with backoff.
func (c *Client) MasterPod(ctx context.Context, deployment string) (string, error) {
	var pod string
	err := retry.WithExponentialBackoff(ctx, func() error {
		name, err := c.lookupPod(ctx, deployment)
		if err != nil {
			if infraerr.IsAmbiguous(err) {
				log.Debugf("Master pod lookup: %v", err)
			}
			return err
		}
		pod = name
		return nil
	},
		retry.WithMaxRetries(c.PodLookup.Retries),
		retry.WithInitialDelay(c.PodLookup.Delay),
		retry.WithMaxDelay(c.PodLookup.MaxDelay),
		retry.WithRetryIf(infraerr.IsAmbiguous),
	)
	if err != nil {
		return "", fmt.Errorf("failed to find pod of %s: %w", deployment, err)
	}
	return pod, nil
}

func (c *Client) lookupPod(ctx context.Context, deployment string) (string, error) {
	replicaSets, err := c.list(ctx, KindReplicaSet)
	if err != nil {
		return "", err
	}

	// Replica sets scaled to zero are leftovers of earlier rollouts.
	var owned []string
	for i := range replicaSets.Items {
		rs := &replicaSets.Items[i]
		if !ownedBy(rs, "Deployment", deployment) {
			continue
		}
		replicas, found, _ := unstructured.NestedInt64(rs.Object, "spec", "replicas")
		if found && replicas == 0 {
			continue
		}
		owned = append(owned, rs.GetName())
	}
	if len(owned) != 1 {
		return "", &infraerr.AmbiguousResourceError{Kind: "replica set", Owner: deployment, Candidates: owned}
	}
	replicaSet := owned[0]

	pods, err := c.list(ctx, KindPod)
	if err != nil {
		return "", err
	}

	var candidates []string
	for i := range pods.Items {
		pod := &pods.Items[i]
		if pod.GetDeletionTimestamp() != nil {
			continue
		}
		if ownedBy(pod, "ReplicaSet", replicaSet) {
			candidates = append(candidates, pod.GetName())
		}
	}
	if len(candidates) != 1 {
		return "", &infraerr.AmbiguousResourceError{Kind: "pod", Owner: replicaSet, Candidates: candidates}
	}
	return candidates[0], nil
}

func ownedBy(obj *unstructured.Unstructured, kind, name string) bool {
	for _, ref := range obj.GetOwnerReferences() {
		if ref.Kind == kind && ref.Name == name {
			return true
		}
	}
	return false
}
