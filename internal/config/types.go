package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the cluster configuration record.
//
// Project, Zone, ClusterID and ContainerRepo are required; everything else
// has a default applied by [Config.SetDefaults].
type Config struct {
	Project       string `yaml:"project"`
	Zone          string `yaml:"zone"`
	ClusterID     string `yaml:"clusterId"`
	ContainerRepo string `yaml:"containerRepo"`

	// GoogleKeyFile is the service account key mounted into the pods as
	// the google-key secret.
	GoogleKeyFile string `yaml:"googleKeyFile,omitempty"`

	// StorageBucket is only probed by doctor; the cluster does not need it.
	StorageBucket string `yaml:"storageBucket,omitempty"`
	StorageRegion string `yaml:"storageRegion,omitempty"`

	Master  NodePoolConfig `yaml:"master,omitempty"`
	Workers NodePoolConfig `yaml:"workers,omitempty"`

	// WorkerReplicas is the replica count of scanner-worker on first creation.
	WorkerReplicas int32 `yaml:"workerReplicas,omitempty"`

	Bridge BridgeConfig `yaml:"bridge,omitempty"`
}

// NodePoolConfig describes one GKE node pool.
type NodePoolConfig struct {
	MachineType string `yaml:"machineType,omitempty"`
	ImageType   string `yaml:"imageType,omitempty"`
	DiskSizeGB  int64  `yaml:"diskSizeGb,omitempty"`

	// NodeCount is the initial size of the pool.
	NodeCount int64 `yaml:"nodeCount,omitempty"`

	// MinNodes and MaxNodes are only honoured for the worker pool, which is
	// the only autoscaling pool.
	MinNodes int64 `yaml:"minNodes,omitempty"`
	MaxNodes int64 `yaml:"maxNodes,omitempty"`

	// CPU is the CPU request of the pods scheduled on this pool, e.g. "1".
	CPU string `yaml:"cpu,omitempty"`
}

// BridgeConfig configures the local port-forward and proxy pair.
type BridgeConfig struct {
	LocalPort    int    `yaml:"localPort,omitempty"`
	MasterPort   int    `yaml:"masterPort,omitempty"`
	ProxyAddress string `yaml:"proxyAddress,omitempty"`
	LockFile     string `yaml:"lockFile,omitempty"`
}

// SetDefaults fills every optional field that was left empty.
func (c *Config) SetDefaults() {
	if c.GoogleKeyFile == "" {
		c.GoogleKeyFile = "google-key.json"
	}
	if c.StorageRegion == "" {
		c.StorageRegion = "us-east-1"
	}
	if c.WorkerReplicas == 0 {
		c.WorkerReplicas = 1
	}

	c.Master.setDefaults()
	if c.Master.NodeCount == 0 {
		c.Master.NodeCount = DefaultMasterNodes
	}
	if c.Master.CPU == "" {
		c.Master.CPU = "1"
	}

	c.Workers.setDefaults()
	if c.Workers.NodeCount == 0 {
		c.Workers.NodeCount = 1
	}
	if c.Workers.MaxNodes == 0 {
		c.Workers.MinNodes = DefaultWorkerMinNodes
		c.Workers.MaxNodes = DefaultWorkerMaxNodes
	}
	if c.Workers.CPU == "" {
		c.Workers.CPU = "3"
	}

	if c.Bridge.LocalPort == 0 {
		c.Bridge.LocalPort = DefaultLocalPort
	}
	if c.Bridge.MasterPort == 0 {
		c.Bridge.MasterPort = DefaultMasterPort
	}
	if c.Bridge.ProxyAddress == "" {
		c.Bridge.ProxyAddress = DefaultProxyAddress
	}
	if c.Bridge.LockFile == "" {
		c.Bridge.LockFile = filepath.Join(os.TempDir(), "scanner-gke-forward.pid")
	}
}

func (p *NodePoolConfig) setDefaults() {
	if p.MachineType == "" {
		p.MachineType = DefaultMachineType
	}
	if p.ImageType == "" {
		p.ImageType = DefaultImageType
	}
	if p.DiskSizeGB == 0 {
		p.DiskSizeGB = DefaultDiskSizeGB
	}
}

// Image returns the container image reference for a Scanner role.
func (c *Config) Image(role string) string {
	return fmt.Sprintf("%s:%s", c.ContainerRepo, role)
}

// KubeContext returns the kubeconfig context name written by
// `gcloud container clusters get-credentials` for this cluster.
func (c *Config) KubeContext() string {
	return fmt.Sprintf("gke_%s_%s_%s", c.Project, c.Zone, c.ClusterID)
}
