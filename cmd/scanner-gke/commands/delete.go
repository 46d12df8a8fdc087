package commands

import (
	"github.com/spf13/cobra"

	"github.com/scanner-research/scanner-gke/cmd/scanner-gke/handlers"
)

// Delete returns the delete command.
func Delete(opts *handlers.GlobalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the cluster",
		Long: `Delete removes the GKE cluster and waits until it is gone.

Deleting a cluster that does not exist succeeds without doing anything.

WARNING: This operation is irreversible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Delete(cmd.Context(), opts.ConfigPath, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
