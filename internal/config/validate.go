package config

import (
	"fmt"
	"regexp"

	"k8s.io/apimachinery/pkg/api/resource"
)

// GKE cluster names: lowercase letters, digits and hyphens, starting with a
// letter, at most 40 characters.
var clusterIDPattern = regexp.MustCompile(`^[a-z]([-a-z0-9]{0,38}[a-z0-9])?$`)

// Validate checks the configuration for common errors and returns a detailed error if validation fails.
func (c *Config) Validate() error {
	// Required fields
	if c.Project == "" {
		return fmt.Errorf("project is required")
	}
	if c.Zone == "" {
		return fmt.Errorf("zone is required")
	}
	if c.ClusterID == "" {
		return fmt.Errorf("clusterId is required")
	}
	if c.ContainerRepo == "" {
		return fmt.Errorf("containerRepo is required")
	}

	if !clusterIDPattern.MatchString(c.ClusterID) {
		return fmt.Errorf("clusterId %q must be lowercase alphanumeric with hyphens, starting with a letter", c.ClusterID)
	}

	if err := c.Master.validate(MasterPool); err != nil {
		return err
	}
	if err := c.Workers.validate(WorkerPool); err != nil {
		return err
	}
	if c.Workers.MinNodes < 0 || c.Workers.MaxNodes < c.Workers.MinNodes {
		return fmt.Errorf("workers: invalid autoscaling bounds %d-%d", c.Workers.MinNodes, c.Workers.MaxNodes)
	}

	if c.WorkerReplicas < 0 {
		return fmt.Errorf("workerReplicas must not be negative")
	}

	if err := validatePort("bridge.localPort", c.Bridge.LocalPort); err != nil {
		return err
	}
	if err := validatePort("bridge.masterPort", c.Bridge.MasterPort); err != nil {
		return err
	}

	return nil
}

func (p *NodePoolConfig) validate(name string) error {
	if p.DiskSizeGB < 10 {
		return fmt.Errorf("%s: diskSizeGb must be at least 10, got %d", name, p.DiskSizeGB)
	}
	if p.NodeCount < 0 {
		return fmt.Errorf("%s: nodeCount must not be negative", name)
	}
	if _, err := resource.ParseQuantity(p.CPU); err != nil {
		return fmt.Errorf("%s: invalid cpu request %q: %w", name, p.CPU, err)
	}
	return nil
}

func validatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", field, port)
	}
	return nil
}
