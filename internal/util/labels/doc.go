// Package labels builds the label sets of the Kubernetes objects managed by
// scanner-gke.
//
// Selectors only ever use the app and role keys; the managed-by and cluster
// keys are informational and set on object metadata.
package labels
