package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/scanner-research/scanner-gke/cmd/scanner-gke/handlers"
)

// Resize returns the resize command.
func Resize(opts *handlers.GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resize <size>",
		Short: "Resize the worker node pool and deployment",
		Long: `Resize sets the worker node pool to <size> nodes and scales the
scanner-worker deployment to <size> replicas.

Example:
  scanner-gke resize 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid size %q: %w", args[0], err)
			}
			if size < 0 {
				return fmt.Errorf("invalid size %d: must not be negative", size)
			}
			return handlers.Resize(cmd.Context(), opts.ConfigPath, size)
		},
	}

	return cmd
}
