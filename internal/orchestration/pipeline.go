package orchestration

import (
	"context"
	"fmt"
	"time"
)

// Phase is one named step of a workflow.
type Phase struct {
	Name string
	Run  func(ctx context.Context) error

	// Skip reports the phase as skipped instead of running it.
	Skip bool
}

// RunPhases executes phases sequentially and stops at the first failure.
func RunPhases(ctx context.Context, o Observer, phases []Phase) error {
	for _, phase := range phases {
		if phase.Skip {
			logPhaseSkipped(o, phase.Name)
			continue
		}

		start := time.Now()
		logPhaseStart(o, phase.Name)

		if err := phase.Run(ctx); err != nil {
			logPhaseFailed(o, phase.Name, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name, err)
		}

		logPhaseComplete(o, phase.Name, time.Since(start))
	}
	return nil
}
