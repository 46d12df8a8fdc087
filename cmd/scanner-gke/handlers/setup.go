// Package handlers implements the scanner-gke commands.
//
// Each handler loads the configuration, builds its collaborators through a
// package-level factory variable and runs one workflow. Tests replace the
// factories to run handlers without GKE, kubectl or gcloud.
package handlers

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/scanner-research/scanner-gke/internal/config"
	"github.com/scanner-research/scanner-gke/internal/log"
)

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
}

// Setup initializes logging for a command invocation.
func Setup(opts GlobalOptions) error {
	log.Init(log.InfoLevel, opts.LogFile)
	if opts.LogLevel == "" {
		return nil
	}
	if err := log.SetLevel(opts.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.LogLevel, err)
	}
	return nil
}

// Factory function variables shared by all handlers - can be replaced in tests.
var (
	// loadConfig loads the configuration file, falling back to the default
	// file in the working directory.
	loadConfig = func(path string) (*config.Config, error) {
		if path == "" {
			found, err := config.FindConfigFile()
			if err != nil {
				return nil, fmt.Errorf("no --config given: %w", err)
			}
			path = found
		}
		return config.LoadFile(path)
	}

	// loadTimeouts reads polling intervals and budgets from the environment.
	loadTimeouts = config.LoadTimeouts

	// isInteractive reports whether stdout is a terminal.
	isInteractive = isInteractiveTTY
)

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
