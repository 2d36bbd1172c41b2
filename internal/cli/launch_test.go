package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSyncer records SyncDeps calls and returns a canned error.
type stubSyncer struct {
	called bool
	gotReq string
	err    error
}

func (s *stubSyncer) SyncDeps(ctx context.Context, requirementsPath string) error {
	s.called = true
	s.gotReq = requirementsPath
	return s.err
}

// TestSyncDependencies verifies the warn-and-continue contract of the
// launch sequence's sync step: a missing requirements manifest and a
// failed install both degrade to a non-fatal outcome, and the step never
// blocks the launch from proceeding to start the application.
func TestSyncDependencies(t *testing.T) {
	writeReq := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "requirements.txt")
		require.NoError(t, os.WriteFile(path, []byte("pyqt5\n"), 0o644))
		return path
	}

	t.Run("successful sync", func(t *testing.T) {
		syncer := &stubSyncer{}
		reqPath := writeReq(t)

		synced := syncDependencies(context.Background(), syncer, reqPath, false)

		assert.True(t, synced)
		assert.True(t, syncer.called)
		assert.Equal(t, reqPath, syncer.gotReq)
	})

	t.Run("missing manifest continues without syncing", func(t *testing.T) {
		syncer := &stubSyncer{}
		reqPath := filepath.Join(t.TempDir(), "requirements.txt")

		synced := syncDependencies(context.Background(), syncer, reqPath, false)

		assert.False(t, synced)
		assert.False(t, syncer.called, "no manifest means nothing to sync")
	})

	t.Run("failed sync continues", func(t *testing.T) {
		syncer := &stubSyncer{err: errors.New("pip exited with status 1")}

		synced := syncDependencies(context.Background(), syncer, writeReq(t), false)

		assert.False(t, synced)
		assert.True(t, syncer.called)
	})

	t.Run("skip never touches pip", func(t *testing.T) {
		syncer := &stubSyncer{}

		synced := syncDependencies(context.Background(), syncer, writeReq(t), true)

		assert.False(t, synced)
		assert.False(t, syncer.called)
	})
}

// TestShouldPause verifies the pause decision after the application
// exits: pause only on a non-zero exit, only without --no-pause, and only
// when stdin is an interactive terminal.
func TestShouldPause(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		noPause  bool
		isTTY    bool
		want     bool
	}{
		{name: "clean exit never pauses", exitCode: 0, isTTY: true, want: false},
		{name: "failure on a TTY pauses", exitCode: 1, isTTY: true, want: true},
		{name: "no-pause suppresses", exitCode: 1, noPause: true, isTTY: true, want: false},
		{name: "non-interactive stdin never pauses", exitCode: 1, isTTY: false, want: false},
		{name: "clean exit with no-pause", exitCode: 0, noPause: true, isTTY: true, want: false},
		{name: "any non-zero code pauses", exitCode: 137, isTTY: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldPause(tt.exitCode, tt.noPause, tt.isTTY))
		})
	}
}
