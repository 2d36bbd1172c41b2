package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSettingsRoundTrip verifies that settings written by
// saveSettingsFile are read back identically by loadSettingsFile,
// including creation of the parent directory.
func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	in := &Settings{
		FFmpegDir:      `C:\ffmpeg\bin`,
		Python:         "python3.11",
		AlwaysSkipDeps: true,
	}
	require.NoError(t, saveSettingsFile(in, path))

	out, err := loadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

// TestLoadSettings_Missing verifies that a missing settings file yields
// zero-valued settings, not an error — the fresh-install state.
func TestLoadSettings_Missing(t *testing.T) {
	out, err := loadSettingsFile(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Settings{}, out)
}

// TestLoadSettings_Malformed verifies that broken YAML is reported with
// the file path rather than silently ignored.
func TestLoadSettings_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ffmpegDir: [unclosed"), 0o644))

	_, err := loadSettingsFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
