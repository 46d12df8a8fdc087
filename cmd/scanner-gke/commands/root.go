// Package commands defines the CLI command structure and flag bindings.
//
// Commands parse arguments and flags only; execution is delegated to the
// handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/scanner-research/scanner-gke/cmd/scanner-gke/handlers"
)

// Root returns the root command for the scanner-gke CLI.
func Root() *cobra.Command {
	var opts handlers.GlobalOptions

	cmd := &cobra.Command{
		Use:           "scanner-gke",
		Short:         "Run Scanner clusters on Google Kubernetes Engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Setup(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: scanner-gke.yaml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "Also write debug logs to this rotated file")

	// Cluster lifecycle
	cmd.AddCommand(Create(&opts))
	cmd.AddCommand(Delete(&opts))
	cmd.AddCommand(Resize(&opts))
	cmd.AddCommand(GetCredentials(&opts))

	// Bridge and diagnostics
	cmd.AddCommand(Serve(&opts))
	cmd.AddCommand(Status(&opts))
	cmd.AddCommand(Doctor(&opts))

	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
