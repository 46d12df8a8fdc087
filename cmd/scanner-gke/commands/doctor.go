package commands

import (
	"github.com/spf13/cobra"

	"github.com/scanner-research/scanner-gke/cmd/scanner-gke/handlers"
)

// Doctor returns the command for checking the local environment.
func Doctor(opts *handlers.GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, credentials and configuration",
		Long: `Doctor checks everything create needs before it runs:
  - kubectl and gcloud are installed
  - the configuration file is valid
  - Google application default credentials are available
  - AWS storage credentials are available and the bucket is reachable
  - the current kubeconfig context matches the cluster`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), opts.ConfigPath)
		},
	}
}
