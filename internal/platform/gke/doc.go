// Package gke is the cloud cluster controller of scanner-gke.
//
// It ensures that the configured GKE cluster exists and is running, deletes
// it idempotently, and resizes the worker node pool. Every call goes through
// the narrow [ClustersAPI] interface; [RealClient] implements it on top of
// google.golang.org/api/container/v1 and tests substitute a fake.
//
// Readiness is strictly polling based. Cluster creation takes minutes, so
// the default interval is five seconds.
package gke
