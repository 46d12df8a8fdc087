package retry

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/scanner-research/scanner-gke/internal/infraerr"
)

// Condition reports whether the polled resource is ready. A non-nil error
// aborts the poll.
type Condition func(ctx context.Context) (done bool, err error)

// Until polls condition every interval, starting immediately, until it
// reports done. A positive timeout bounds the poll and yields a
// *infraerr.ProvisionTimeoutError naming resource when exceeded; a zero
// timeout polls until ctx ends.
func Until(ctx context.Context, interval, timeout time.Duration, resource string, condition Condition) error {
	var err error
	if timeout > 0 {
		err = wait.PollUntilContextTimeout(ctx, interval, timeout, true, wait.ConditionWithContextFunc(condition))
	} else {
		err = wait.PollUntilContextCancel(ctx, interval, true, wait.ConditionWithContextFunc(condition))
	}
	if err == nil {
		return nil
	}

	if timeout > 0 && ctx.Err() == nil && wait.Interrupted(err) {
		return &infraerr.ProvisionTimeoutError{Resource: resource, Timeout: timeout, Err: err}
	}
	return err
}
