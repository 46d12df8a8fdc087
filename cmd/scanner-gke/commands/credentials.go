package commands

import (
	"github.com/spf13/cobra"

	"github.com/scanner-research/scanner-gke/cmd/scanner-gke/handlers"
)

// GetCredentials returns the get-credentials command.
func GetCredentials(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get-credentials",
		Short: "Write cluster credentials into the kubeconfig",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.GetCredentials(cmd.Context(), opts.ConfigPath)
		},
	}
}
