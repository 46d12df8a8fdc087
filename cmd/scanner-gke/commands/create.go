package commands

import (
	"github.com/spf13/cobra"

	"github.com/scanner-research/scanner-gke/cmd/scanner-gke/handlers"
)

// Create returns the create command.
//
// Create is idempotent: every step checks for the resource first, so it can
// be rerun after a partial failure.
func Create(opts *handlers.GlobalOptions) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the cluster and deploy Scanner",
		Long: `Create brings a Scanner cluster up on GKE.

Steps, each skipped when already done:
  - Create the cluster with a master and a worker node pool
  - Fetch cluster credentials into the kubeconfig
  - Create the google-key and aws-storage-key secrets
  - Create the scanner-master deployment and wait until it is available
  - Start a port-forward to the master pod and a kubectl proxy
  - Create the scanner-master service and the scanner-worker deployment

With --reset every deployment is deleted and recreated, for example to pick
up new images.

Example:
  scanner-gke create -c scanner-gke.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), opts.ConfigPath, reset)
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Delete and recreate all deployments")

	return cmd
}
