package config

// Names of the Kubernetes objects managed by scanner-gke.
const (
	GoogleKeySecret  = "google-key"
	StorageKeySecret = "aws-storage-key"

	MasterDeployment = "scanner-master"
	WorkerDeployment = "scanner-worker"
	MasterService    = "scanner-master"
)

// Node pool names. Deployments select their pool through the
// cloud.google.com/gke-nodepool label.
const (
	MasterPool = "master"
	WorkerPool = "workers"
)

// Default ports of the Scanner master and the local bridge.
const (
	DefaultMasterPort   = 8080
	DefaultLocalPort    = 8080
	DefaultProxyAddress = "0.0.0.0"
)

// DefaultConfigFile is looked up in the working directory when no --config is given.
const DefaultConfigFile = "scanner-gke.yaml"

// Node pool defaults for the canonical two-pool topology.
const (
	DefaultMachineType    = "n1-standard-4"
	DefaultImageType      = "COS"
	DefaultDiskSizeGB     = 100
	DefaultMasterNodes    = 1
	DefaultWorkerMinNodes = 0
	DefaultWorkerMaxNodes = 100
)
