// Package orchestration sequences the cluster controller, the object
// reconciler and the session supervisor into the create, delete and resize
// workflows.
//
// # Workflow
//
// Create runs these phases in order:
//  1. Cluster - create the cluster with its two node pools unless it exists, then wait for RUNNING
//  2. Credentials - fetch kubectl credentials for the cluster
//  3. Reset - delete every deployment (only when requested)
//  4. Secrets - google-key and aws-storage-key
//  5. Master - the scanner-master deployment; on first creation wait for it and start the bridge
//  6. Service - the scanner-master service
//  7. Workers - the scanner-worker deployment
//
// Every phase is idempotent, so Create can be rerun after a failure or
// against a cluster that is already up.
package orchestration
