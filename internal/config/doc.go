// Package config defines the cluster configuration record shared by every
// scanner-gke component.
//
// The [Config] struct is read once from a YAML file at process start,
// defaulted and validated, and then passed by pointer into each component
// constructor. Nothing in the module reads configuration from ambient state
// after startup. Polling intervals and retry budgets live separately in
// [Timeouts], which is populated from environment variables.
package config
