package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scanner-research/scanner-gke/internal/platform/gke"
	"github.com/scanner-research/scanner-gke/internal/session"
)

// ClusterStatus is the output of the status command.
type ClusterStatus struct {
	Cluster string           `json:"cluster"`
	Project string           `json:"project"`
	Zone    string           `json:"zone"`
	State   gke.ClusterState `json:"state"`
	Bridge  BridgeStatus     `json:"bridge"`
}

// BridgeStatus describes the port-forward session recorded on this machine.
type BridgeStatus struct {
	LockFile   string `json:"lockFile"`
	Recorded   bool   `json:"recorded"`
	Pid        int    `json:"pid,omitempty"`
	Alive      bool   `json:"alive"`
	Executable string `json:"executable,omitempty"`
	LocalPort  int    `json:"localPort"`
}

// statusOutput is where status and doctor write; replaced in tests.
var statusOutput io.Writer = os.Stdout

// Status handles the status command. It derives the cluster state from the
// provider and inspects the lock file without modifying anything.
func Status(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	stater, err := newClusterStater(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	state, err := stater.State(ctx)
	if err != nil {
		return fmt.Errorf("failed to get cluster state: %w", err)
	}

	sess, err := session.Describe(newSessionStore(cfg))
	if err != nil {
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	status := &ClusterStatus{
		Cluster: cfg.ClusterID,
		Project: cfg.Project,
		Zone:    cfg.Zone,
		State:   state,
		Bridge: BridgeStatus{
			LockFile:   cfg.Bridge.LockFile,
			Recorded:   sess.Recorded,
			Pid:        sess.Pid,
			Alive:      sess.Alive,
			Executable: sess.Executable,
			LocalPort:  cfg.Bridge.LocalPort,
		},
	}

	if jsonOutput {
		enc := json.NewEncoder(statusOutput)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	_, err = io.WriteString(statusOutput, renderStatus(status, isInteractive()))
	return err
}

func renderStatus(s *ClusterStatus, styled bool) string {
	var b strings.Builder

	title := fmt.Sprintf("Cluster %s (%s/%s)", s.Cluster, s.Project, s.Zone)
	if styled {
		title = titleStyle.Render(title)
	}
	b.WriteString(title + "\n")

	fmt.Fprintf(&b, "  %s state: %s\n", mark(s.State == gke.StateRunning, styled), s.State)

	bridge := s.Bridge
	switch {
	case !bridge.Recorded:
		fmt.Fprintf(&b, "  %s bridge: no session recorded\n", mark(false, styled))
	case bridge.Alive:
		detail := fmt.Sprintf("pid %d", bridge.Pid)
		if bridge.Executable != "" {
			detail += " (" + bridge.Executable + ")"
		}
		fmt.Fprintf(&b, "  %s bridge: %s on localhost:%d\n", mark(true, styled), detail, bridge.LocalPort)
	default:
		fmt.Fprintf(&b, "  %s bridge: stale lock for pid %d\n", mark(false, styled), bridge.Pid)
	}

	lock := "  lock file: " + bridge.LockFile
	if styled {
		lock = dimStyle.Render(lock)
	}
	b.WriteString(lock + "\n")

	return b.String()
}
