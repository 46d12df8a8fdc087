package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/scanner-research/scanner-gke/internal/log"
)

// ErrDeleteAborted is returned when the user declines the confirmation.
var ErrDeleteAborted = errors.New("delete aborted")

// Factory function variables for delete - can be replaced in tests.
var (
	// confirmDelete asks the user to confirm deleting clusterID.
	confirmDelete = func(ctx context.Context, clusterID string) (bool, error) {
		var confirmed bool
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete cluster %s?", clusterID)).
					Description("All nodes and Scanner deployments are removed. This cannot be undone.").
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirmed),
			),
		).RunWithContext(ctx)
		return confirmed, err
	}
)

// Delete handles the delete command. Without yes the user is asked for
// confirmation, which requires a terminal.
func Delete(ctx context.Context, configPath string, yes bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if !yes {
		if !isInteractive() {
			return fmt.Errorf("refusing to delete cluster %s without --yes in a non-interactive session", cfg.ClusterID)
		}
		confirmed, err := confirmDelete(ctx, cfg.ClusterID)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !confirmed {
			return ErrDeleteAborted
		}
	}

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	if err := rt.workflow.Delete(ctx); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	log.Infof("Cluster %s deleted", cfg.ClusterID)
	return nil
}
