package labels

// Label keys.
const (
	// KeyApp selects every Scanner pod.
	KeyApp = "app"

	// KeyRole distinguishes the master from the workers.
	KeyRole = "role"

	// KeyCluster names the GKE cluster the object was created for.
	KeyCluster = "scanner.io/cluster"

	// KeyManagedBy identifies the management system.
	KeyManagedBy = "app.kubernetes.io/managed-by"
)

// Label values.
const (
	AppScanner       = "scanner"
	ManagedByScanner = "scanner-gke"
)

// LabelBuilder provides a fluent interface for building object labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a builder with the app label pre-set.
func NewLabelBuilder() *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{KeyApp: AppScanner},
	}
}

// WithRole adds the role label ("master" or "worker").
func (lb *LabelBuilder) WithRole(role string) *LabelBuilder {
	lb.labels[KeyRole] = role
	return lb
}

// WithCluster adds the cluster label. An empty name is ignored.
func (lb *LabelBuilder) WithCluster(clusterID string) *LabelBuilder {
	if clusterID != "" {
		lb.labels[KeyCluster] = clusterID
	}
	return lb
}

// WithManagedBy marks the object as managed by scanner-gke.
func (lb *LabelBuilder) WithManagedBy() *LabelBuilder {
	lb.labels[KeyManagedBy] = ManagedByScanner
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// Selector returns the pod selector of a role.
func Selector(role string) map[string]string {
	return NewLabelBuilder().WithRole(role).Build()
}
