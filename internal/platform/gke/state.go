package gke

// ClusterState is the lifecycle state of the cluster, derived on every call
// from the provider status and never cached.
type ClusterState string

const (
	StateAbsent   ClusterState = "Absent"
	StateCreating ClusterState = "Creating"
	StateRunning  ClusterState = "Running"
	StateDeleting ClusterState = "Deleting"
	// StateUnknown covers provider statuses with no lifecycle mapping, e.g. ERROR.
	StateUnknown ClusterState = "Unknown"
)

// GKE cluster status values.
const (
	statusProvisioning = "PROVISIONING"
	statusRunning      = "RUNNING"
	statusReconciling  = "RECONCILING"
	statusDegraded     = "DEGRADED"
	statusStopping     = "STOPPING"
	statusError        = "ERROR"
)

// StateFromStatus maps a GKE status string to a ClusterState.
func StateFromStatus(status string) ClusterState {
	switch status {
	case statusProvisioning:
		return StateCreating
	case statusRunning, statusReconciling, statusDegraded:
		return StateRunning
	case statusStopping:
		return StateDeleting
	default:
		return StateUnknown
	}
}
