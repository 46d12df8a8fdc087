package k8s

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/scanner-research/scanner-gke/internal/log"
	"github.com/scanner-research/scanner-gke/internal/util/retry"
)

// WaitReady polls the deployments until name reports no unavailable
// replicas. It has no timeout of its own and returns only when the
// deployment is ready, a listing fails, or ctx ends.
func (c *Client) WaitReady(ctx context.Context, name string, interval time.Duration) error {
	log.Infof("Waiting for deployment %s to become available...", name)

	return retry.Until(ctx, interval, 0, "deployment "+name, func(ctx context.Context) (bool, error) {
		c.metrics.StatusPolled("deployment")

		list, err := c.list(ctx, KindDeployment)
		if err != nil {
			return false, err
		}
		for i := range list.Items {
			if list.Items[i].GetName() == name {
				return deploymentAvailable(&list.Items[i])
			}
		}
		log.Debugf("Deployment %s not listed yet", name)
		return false, nil
	})
}

// deploymentAvailable reports whether the deployment controller has observed
// the object and omitted status.unavailableReplicas. The field is dropped once
// every replica is available, so its absence rather than a zero value is the
// signal.
func deploymentAvailable(d *unstructured.Unstructured) (bool, error) {
	if _, found, err := unstructured.NestedFieldNoCopy(d.Object, "status", "observedGeneration"); err != nil {
		return false, fmt.Errorf("invalid status of deployment %s: %w", d.GetName(), err)
	} else if !found {
		return false, nil
	}

	unavailable, found, err := unstructured.NestedFieldNoCopy(d.Object, "status", "unavailableReplicas")
	if err != nil {
		return false, fmt.Errorf("invalid status of deployment %s: %w", d.GetName(), err)
	}
	if found {
		log.Debugf("Deployment %s has %v unavailable replicas", d.GetName(), unavailable)
		return false, nil
	}
	return true, nil
}
