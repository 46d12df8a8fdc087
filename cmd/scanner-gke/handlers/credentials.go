package handlers

import (
	"context"
	"fmt"
)

// GetCredentials handles the get-credentials command.
func GetCredentials(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	return rt.workflow.GetCredentials(ctx)
}
