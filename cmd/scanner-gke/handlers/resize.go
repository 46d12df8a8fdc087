package handlers

import (
	"context"
	"fmt"
)

// Resize handles the resize command.
func Resize(ctx context.Context, configPath string, size int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	if err := rt.workflow.Resize(ctx, size); err != nil {
		return fmt.Errorf("resize failed: %w", err)
	}
	return nil
}
