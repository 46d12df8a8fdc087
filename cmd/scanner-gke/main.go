// Package main is the entry point for the scanner-gke CLI.
//
// scanner-gke brings up a Scanner deployment on Google Kubernetes Engine:
// a cluster with a master and a worker node pool, the master and worker
// deployments, and a local port-forward bridge to the Scanner master.
//
// Commands: create, delete, resize, get-credentials, serve, status, doctor.
//
// For detailed usage information, run:
//
//	scanner-gke --help
package main

import (
	"fmt"
	"os"

	"github.com/scanner-research/scanner-gke/cmd/scanner-gke/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
