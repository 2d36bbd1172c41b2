package ffmpeg

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildZip creates an in-memory zip with the given entry names (each
// containing its own name as content) and writes it to a temp file.
func buildZip(t *testing.T, entries ...string) string {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "release.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// TestIsBinEntry verifies the archive-layout matching: only entries
// directly inside a bin/ directory count, at any nesting level.
func TestIsBinEntry(t *testing.T) {
	assert.True(t, isBinEntry("ffmpeg-6.1-essentials_build/bin/ffmpeg.exe"))
	assert.True(t, isBinEntry("bin/ffprobe"))
	assert.False(t, isBinEntry("ffmpeg-6.1/doc/ffmpeg.html"))
	assert.False(t, isBinEntry("ffmpeg-6.1/bin/presets/default.preset"))
	assert.False(t, isBinEntry("ffmpeg.exe"))
}

// TestExtractTools verifies that bin/ entries are flattened into the
// install directory and everything else is skipped.
func TestExtractTools(t *testing.T) {
	archive := buildZip(t,
		"ffmpeg-6.1-essentials_build/bin/ffmpeg.exe",
		"ffmpeg-6.1-essentials_build/bin/ffprobe.exe",
		"ffmpeg-6.1-essentials_build/doc/ffmpeg.html",
		"ffmpeg-6.1-essentials_build/LICENSE",
	)
	installDir := filepath.Join(t.TempDir(), "bin")

	n, err := ExtractTools(archive, installDir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.FileExists(t, filepath.Join(installDir, "ffmpeg.exe"))
	assert.FileExists(t, filepath.Join(installDir, "ffprobe.exe"))
	assert.NoFileExists(t, filepath.Join(installDir, "ffmpeg.html"))

	content, err := os.ReadFile(filepath.Join(installDir, "ffmpeg.exe"))
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg-6.1-essentials_build/bin/ffmpeg.exe", string(content))
}

// TestExtractTools_NoTools verifies the error when the archive has no
// bin/ directory at all.
func TestExtractTools_NoTools(t *testing.T) {
	archive := buildZip(t, "readme.txt")

	_, err := ExtractTools(archive, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bin/ tools")
}

// TestInstall_EndToEnd exercises the download-and-extract pipeline
// against a local HTTP server.
func TestInstall_EndToEnd(t *testing.T) {
	archive := buildZip(t, "ffmpeg-7.0/bin/ffmpeg", "ffmpeg-7.0/bin/ffprobe")
	archiveBytes, err := os.ReadFile(archive)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archiveBytes)
	}))
	defer server.Close()

	installDir := filepath.Join(t.TempDir(), "tools")
	n, err := Install(context.Background(), server.URL+"/ffmpeg-release.zip", installDir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.FileExists(t, filepath.Join(installDir, "ffmpeg"))
	assert.FileExists(t, filepath.Join(installDir, "ffprobe"))
}

// TestDownload_HTTPError verifies that a non-200 response is reported
// with the status rather than writing a broken file.
func TestDownload_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := Download(context.Background(), server.URL+"/missing.zip", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
