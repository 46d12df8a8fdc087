package k8s

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanner-research/scanner-gke/internal/infraerr"
)

func replicaSetJSON(name, deployment string, replicas int) string {
	return fmt.Sprintf(`{"apiVersion":"apps/v1","kind":"ReplicaSet","metadata":{"name":%q,"ownerReferences":[{"apiVersion":"apps/v1","kind":"Deployment","name":%q,"uid":"u1"}]},"spec":{"replicas":%d}}`,
		name, deployment, replicas)
}

func podJSON(name, replicaSet string, terminating bool) string {
	deletion := ""
	if terminating {
		deletion = `,"deletionTimestamp":"2024-01-01T00:00:00Z"`
	}
	return fmt.Sprintf(`{"apiVersion":"v1","kind":"Pod","metadata":{"name":%q%s,"ownerReferences":[{"apiVersion":"apps/v1","kind":"ReplicaSet","name":%q,"uid":"u2"}]}}`,
		name, deletion, replicaSet)
}

func fastLookup(c *Client) {
	c.PodLookup = PodLookup{Retries: 10, Delay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestMasterPod(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	kubectl := newFakeKubectl(fs)
	kubectl.setList(KindReplicaSet, listJSON(
		replicaSetJSON("scanner-master-old", "scanner-master", 0),
		replicaSetJSON("scanner-master-abc", "scanner-master", 1),
		replicaSetJSON("scanner-worker-def", "scanner-worker", 3),
	))
	kubectl.setList(KindPod, listJSON(
		podJSON("scanner-master-old-1", "scanner-master-old", true),
		podJSON("scanner-master-abc-x1", "scanner-master-abc", false),
		podJSON("scanner-worker-def-y1", "scanner-worker-def", false),
	))
	c := NewClient(kubectl, fs, nil)
	fastLookup(c)

	pod, err := c.MasterPod(context.Background(), "scanner-master")
	require.NoError(t, err)
	assert.Equal(t, "scanner-master-abc-x1", pod)
}

func TestMasterPod_RetriesUntilUnambiguous(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	kubectl := newFakeKubectl(fs)
	kubectl.setList(KindReplicaSet,
		listJSON(),
		listJSON(
			replicaSetJSON("scanner-master-a", "scanner-master", 1),
			replicaSetJSON("scanner-master-b", "scanner-master", 1),
		),
		listJSON(replicaSetJSON("scanner-master-b", "scanner-master", 1)),
	)
	kubectl.setList(KindPod,
		listJSON(),
		listJSON(podJSON("scanner-master-b-1", "scanner-master-b", false)),
	)
	c := NewClient(kubectl, fs, nil)
	fastLookup(c)

	pod, err := c.MasterPod(context.Background(), "scanner-master")
	require.NoError(t, err)
	assert.Equal(t, "scanner-master-b-1", pod)
}

func TestMasterPod_GivesUp(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	kubectl := newFakeKubectl(fs)
	c := NewClient(kubectl, fs, nil)
	c.PodLookup = PodLookup{Retries: 2, Delay: time.Millisecond, MaxDelay: time.Millisecond}

	_, err := c.MasterPod(context.Background(), "scanner-master")
	require.Error(t, err)
	assert.True(t, infraerr.IsAmbiguous(err))
	assert.Len(t, kubectl.callList(), 3)
}

func TestMasterPod_ListErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	kubectl := newFakeKubectl(fs)
	kubectl.listErr = &infraerr.ProcessExecutionError{Command: []string{"kubectl"}, ExitCode: 1}
	c := NewClient(kubectl, fs, nil)
	fastLookup(c)

	_, err := c.MasterPod(context.Background(), "scanner-master")
	require.Error(t, err)
	assert.True(t, infraerr.IsProcessExecution(err))
	assert.Len(t, kubectl.callList(), 1)
}
