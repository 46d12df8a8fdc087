package handlers

import (
	"context"
	"fmt"

	"github.com/scanner-research/scanner-gke/internal/log"
)

// Create handles the create command.
//
// A bridge started for a freshly created master is left running after the
// command exits; its process group is recorded in the lock file so the next
// invocation can replace it.
func Create(ctx context.Context, configPath string, reset bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	sess, err := rt.workflow.Create(ctx, reset)
	if err != nil {
		if tdErr := rt.bridge.Teardown(); tdErr != nil {
			log.Warnf("Failed to stop port-forward session: %v", tdErr)
		}
		return fmt.Errorf("create failed: %w", err)
	}

	if sess != nil {
		rt.bridge.Detach()
		log.Infof("Scanner master %s reachable at localhost:%d", sess.PodName, cfg.Bridge.LocalPort)
	}

	log.Infof("Cluster %s is ready", cfg.ClusterID)
	return nil
}
