package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLabelBuilder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[string]string{KeyApp: AppScanner}, NewLabelBuilder().Build())
}

func TestLabelBuilder_Chain(t *testing.T) {
	t.Parallel()

	got := NewLabelBuilder().WithRole("master").WithCluster("cluster-1").WithManagedBy().Build()

	assert.Equal(t, map[string]string{
		KeyApp:       "scanner",
		KeyRole:      "master",
		KeyCluster:   "cluster-1",
		KeyManagedBy: "scanner-gke",
	}, got)
}

func TestLabelBuilder_EmptyClusterIgnored(t *testing.T) {
	t.Parallel()

	got := NewLabelBuilder().WithCluster("").Build()
	assert.NotContains(t, got, KeyCluster)
}

func TestLabelBuilder_BuildReturnsCopy(t *testing.T) {
	t.Parallel()

	lb := NewLabelBuilder().WithRole("worker")
	first := lb.Build()
	first[KeyRole] = "mutated"

	assert.Equal(t, "worker", lb.Build()[KeyRole])
}

func TestSelector(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[string]string{"app": "scanner", "role": "worker"}, Selector("worker"))
}
