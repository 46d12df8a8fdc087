package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/scanner-research/scanner-gke/internal/log"
)

// Factory function variables for serve - can be replaced in tests.
var (
	// notifyContext derives the context cancelled by Ctrl-C or SIGTERM.
	notifyContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	}
)

// Serve handles the serve command. It runs the bridge in the foreground
// until interrupted and optionally exposes metrics on metricsAddr.
func Serve(ctx context.Context, configPath, metricsAddr string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	if err := rt.workflow.GetCredentials(ctx); err != nil {
		return err
	}

	ctx, stop := notifyContext(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	if metricsAddr != "" {
		log.Infof("Serving metrics on %s/metrics", metricsAddr)
		g.Go(func() error {
			return rt.metrics.Serve(gctx, metricsAddr)
		})
	}
	g.Go(func() error {
		return rt.bridge.Run(gctx)
	})

	return g.Wait()
}
