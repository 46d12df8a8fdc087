package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanner-research/scanner-gke/internal/config"
	"github.com/scanner-research/scanner-gke/internal/session"
)

func TestCreate(t *testing.T) {
	s := stubHandlers(t)
	s.workflow.session = &session.Session{Pid: 4242, PodName: "scanner-master-abc"}

	require.NoError(t, Create(context.Background(), "scanner-gke.yaml", true))

	assert.Equal(t, []string{"create"}, s.workflow.calls)
	assert.True(t, s.workflow.reset)
	assert.Equal(t, 1, s.bridge.detached, "a new session outlives the command")
	assert.Equal(t, 0, s.bridge.teardowns)
}

func TestCreate_ExistingMasterLeavesBridgeAlone(t *testing.T) {
	s := stubHandlers(t)

	require.NoError(t, Create(context.Background(), "", false))
	assert.Equal(t, 0, s.bridge.detached)
}

func TestCreate_FailureStopsBridge(t *testing.T) {
	s := stubHandlers(t)
	s.workflow.createErr = errors.New("workers phase failed")

	err := Create(context.Background(), "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create failed")
	assert.Equal(t, 1, s.bridge.teardowns)
	assert.Equal(t, 0, s.bridge.detached)
}

func TestCreate_ConfigError(t *testing.T) {
	s := stubHandlers(t)
	loadConfig = func(string) (*config.Config, error) { return nil, config.ErrConfigNotFound }

	err := Create(context.Background(), "", false)
	require.ErrorIs(t, err, config.ErrConfigNotFound)
	assert.Empty(t, s.workflow.calls)
}

func TestDelete_WithYes(t *testing.T) {
	s := stubHandlers(t)

	require.NoError(t, Delete(context.Background(), "", true))
	assert.Equal(t, []string{"delete"}, s.workflow.calls)
}

func TestDelete_NonInteractiveRequiresYes(t *testing.T) {
	s := stubHandlers(t)

	err := Delete(context.Background(), "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Empty(t, s.workflow.calls)
}

func TestDelete_Confirmation(t *testing.T) {
	tests := []struct {
		name      string
		confirmed bool
		wantErr   error
		wantCalls []string
	}{
		{"confirmed", true, nil, []string{"delete"}},
		{"declined", false, ErrDeleteAborted, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stubHandlers(t)
			isInteractive = func() bool { return true }
			var asked string
			confirmDelete = func(_ context.Context, clusterID string) (bool, error) {
				asked = clusterID
				return tt.confirmed, nil
			}

			err := Delete(context.Background(), "", false)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, "cluster-1", asked)
			assert.Equal(t, tt.wantCalls, s.workflow.calls)
		})
	}
}

func TestDelete_Error(t *testing.T) {
	s := stubHandlers(t)
	s.workflow.deleteErr = errors.New("conflict")

	err := Delete(context.Background(), "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete failed")
}

func TestResize(t *testing.T) {
	s := stubHandlers(t)

	require.NoError(t, Resize(context.Background(), "", 12))
	assert.Equal(t, 12, s.workflow.size)

	s.workflow.resizeErr = errors.New("quota exceeded")
	err := Resize(context.Background(), "", 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resize failed")
}

func TestGetCredentials(t *testing.T) {
	s := stubHandlers(t)

	require.NoError(t, GetCredentials(context.Background(), ""))
	assert.Equal(t, []string{"get-credentials"}, s.workflow.calls)
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := stubHandlers(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "", "") }()

	require.Eventually(t, func() bool {
		s.bridge.mu.Lock()
		defer s.bridge.mu.Unlock()
		return s.bridge.runCalls == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("serve did not return after cancel")
	}
	assert.Equal(t, []string{"get-credentials"}, s.workflow.calls)
}

func TestServe_BridgeFailure(t *testing.T) {
	s := stubHandlers(t)
	s.bridge.runErr = errors.New("port-forward exited")

	err := Serve(context.Background(), "", "127.0.0.1:0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port-forward exited")
}

func TestServe_CredentialsFailure(t *testing.T) {
	s := stubHandlers(t)
	s.workflow.credsErr = errors.New("context mismatch")

	err := Serve(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, 0, s.bridge.runCalls)
}

func TestSetup(t *testing.T) {
	require.NoError(t, Setup(GlobalOptions{LogLevel: "debug"}))

	err := Setup(GlobalOptions{LogLevel: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	require.NoError(t, Setup(GlobalOptions{LogLevel: "info"}))
}
