package gke

import (
	"context"
	"net/http"
	"sync"

	container "google.golang.org/api/container/v1"
	"google.golang.org/api/googleapi"
)

func conflict() error {
	return &googleapi.Error{Code: http.StatusConflict, Message: "operation in progress"}
}

// fakeClustersAPI is an in-memory ClustersAPI.
type fakeClustersAPI struct {
	mu sync.Mutex

	clusters []*container.Cluster

	// getStatuses is consumed one entry per Get; the last entry repeats.
	getStatuses []string
	getErrs     []error

	// listErr is returned by every List when set.
	listErr error
	// deleteAfterPolls removes the cluster after that many List calls following Delete.
	deleteAfterPolls int
	deleteErr        error
	createErr        error
	resizeErr        error

	// deleteConflicts and resizeConflicts answer that many leading calls with 409.
	deleteConflicts int
	resizeConflicts int

	created     []*container.Cluster
	deleteCalls    int
	resizeAttempts int
	resizeCalls    []resizeCall
	listCalls   int
	getCalls    int

	deleting    bool
	sinceDelete int
}

type resizeCall struct {
	cluster string
	pool    string
	size    int64
}

func (f *fakeClustersAPI) List(_ context.Context, _, _ string) ([]*container.Cluster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.deleting {
		f.sinceDelete++
		if f.sinceDelete > f.deleteAfterPolls {
			f.clusters = nil
		}
	}
	return append([]*container.Cluster(nil), f.clusters...), nil
}

func (f *fakeClustersAPI) Get(_ context.Context, _, _, clusterID string) (*container.Cluster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.getCalls
	f.getCalls++

	if i < len(f.getErrs) && f.getErrs[i] != nil {
		return nil, f.getErrs[i]
	}

	status := ""
	if len(f.getStatuses) > 0 {
		if i >= len(f.getStatuses) {
			i = len(f.getStatuses) - 1
		}
		status = f.getStatuses[i]
	}
	return &container.Cluster{Name: clusterID, Status: status}, nil
}

func (f *fakeClustersAPI) Create(_ context.Context, _, _ string, cluster *container.Cluster) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, cluster)
	return nil
}

func (f *fakeClustersAPI) Delete(_ context.Context, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleteCalls++
	if f.deleteCalls <= f.deleteConflicts {
		return conflict()
	}
	f.deleting = true
	return f.deleteErr
}

func (f *fakeClustersAPI) SetNodePoolSize(_ context.Context, _, _, clusterID, pool string, size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.resizeAttempts++
	if f.resizeAttempts <= f.resizeConflicts {
		return conflict()
	}
	if f.resizeErr != nil {
		return f.resizeErr
	}
	f.resizeCalls = append(f.resizeCalls, resizeCall{cluster: clusterID, pool: pool, size: size})
	return nil
}
