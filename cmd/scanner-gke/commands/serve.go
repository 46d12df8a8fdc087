package commands

import (
	"github.com/spf13/cobra"

	"github.com/scanner-research/scanner-gke/cmd/scanner-gke/handlers"
)

// Serve returns the serve command.
//
// Serve keeps a bridge to the Scanner master in the foreground until it is
// interrupted.
func Serve(opts *handlers.GlobalOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Forward to the Scanner master until interrupted",
		Long: `Serve fetches cluster credentials, replaces any running bridge and
keeps a port-forward to the master pod plus a kubectl proxy running in the
foreground. Ctrl-C stops both processes.

Example:
  scanner-gke serve --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Serve(cmd.Context(), opts.ConfigPath, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address")

	return cmd
}
