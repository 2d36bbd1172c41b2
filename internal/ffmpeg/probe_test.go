package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIsVideoFile verifies recognized extensions, case-insensitivity,
// and rejection of non-video files.
func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"movie.mp4", true},
		{"movie.MKV", true},
		{"clip.Avi", true},
		{"clip.mov", true},
		{"old.flv", true},
		{"old.wmv", true},
		{"track.mp3", false},
		{"notes.txt", false},
		{"mp4", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsVideoFile(tt.name), tt.name)
	}
}

// TestSortFolderName verifies the "<dirname>_notX265" naming, including
// trailing separators.
func TestSortFolderName(t *testing.T) {
	assert.Equal(t, "videos_notX265", SortFolderName(filepath.Join("data", "videos")))
	assert.Equal(t, "videos_notX265", SortFolderName(filepath.Join("data", "videos")+string(filepath.Separator)))
}

// stubCodecs replaces the ffprobe call for ScanDir tests. The map is
// file base name → codec; absent names fail the probe.
func stubCodecs(t *testing.T, codecs map[string]string) {
	t.Helper()
	orig := videoCodec
	t.Cleanup(func() { videoCodec = orig })
	videoCodec = func(_ context.Context, _, file string) (string, error) {
		if codec, ok := codecs[filepath.Base(file)]; ok {
			return codec, nil
		}
		return "", errors.New("ffprobe failed")
	}
}

// scanFixture populates a directory with the given files plus one
// non-video file and one subdirectory, which the scan must ignore.
func scanFixture(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0o755))
	return dir
}

// TestScanDir_ReportOnly verifies codec classification without moving
// anything.
func TestScanDir_ReportOnly(t *testing.T) {
	dir := scanFixture(t, "a.mp4", "b.mkv", "c.avi")
	stubCodecs(t, map[string]string{
		"a.mp4": "hevc",
		"b.mkv": "h264",
		"c.avi": "mpeg4",
	})

	results, err := ScanDir(context.Background(), "/fake/ffprobe", dir, false)
	require.NoError(t, err)
	require.Len(t, results, 3, "non-video files and subdirectories are skipped")

	// Results are sorted by name.
	assert.Equal(t, "a.mp4", results[0].Name)
	assert.True(t, results[0].IsHEVC)
	assert.False(t, results[0].Moved)

	assert.Equal(t, "b.mkv", results[1].Name)
	assert.Equal(t, "h264", results[1].Codec)
	assert.False(t, results[1].IsHEVC)
	assert.False(t, results[1].Moved, "report-only scan must not move files")

	// Nothing relocated, no sort folder created.
	_, err = os.Stat(filepath.Join(dir, SortFolderName(dir)))
	assert.True(t, os.IsNotExist(err))
}

// TestScanDir_Move verifies that non-HEVC files are relocated into the
// sort folder while HEVC files stay put.
func TestScanDir_Move(t *testing.T) {
	dir := scanFixture(t, "keep.mp4", "move.mkv")
	stubCodecs(t, map[string]string{
		"keep.mp4": "hevc",
		"move.mkv": "h264",
	})

	results, err := ScanDir(context.Background(), "/fake/ffprobe", dir, true)
	require.NoError(t, err)
	require.Len(t, results, 2)

	sortPath := filepath.Join(dir, SortFolderName(dir))
	assert.FileExists(t, filepath.Join(sortPath, "move.mkv"))
	assert.FileExists(t, filepath.Join(dir, "keep.mp4"))
	assert.NoFileExists(t, filepath.Join(dir, "move.mkv"))

	for _, res := range results {
		if res.Name == "move.mkv" {
			assert.True(t, res.Moved)
		} else {
			assert.False(t, res.Moved)
		}
	}
}

// TestScanDir_RepeatedRunIsStable verifies that a second move-scan skips
// the sort folder and finds nothing left to relocate.
func TestScanDir_RepeatedRunIsStable(t *testing.T) {
	dir := scanFixture(t, "keep.mp4", "move.mkv")
	stubCodecs(t, map[string]string{
		"keep.mp4": "hevc",
		"move.mkv": "h264",
	})

	_, err := ScanDir(context.Background(), "/fake/ffprobe", dir, true)
	require.NoError(t, err)

	results, err := ScanDir(context.Background(), "/fake/ffprobe", dir, true)
	require.NoError(t, err)
	require.Len(t, results, 1, "only the remaining HEVC file is scanned")
	assert.Equal(t, "keep.mp4", results[0].Name)
}

// TestScanDir_ProbeFailure verifies that a file failing the probe is
// reported with its error and never moved.
func TestScanDir_ProbeFailure(t *testing.T) {
	dir := scanFixture(t, "bad.mp4")
	stubCodecs(t, nil) // every probe fails

	results, err := ScanDir(context.Background(), "/fake/ffprobe", dir, true)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.NotEmpty(t, results[0].Err)
	assert.False(t, results[0].Moved)
	assert.FileExists(t, filepath.Join(dir, "bad.mp4"))
}

// TestScanDir_MissingDir verifies the error for a nonexistent target.
func TestScanDir_MissingDir(t *testing.T) {
	_, err := ScanDir(context.Background(), "/fake/ffprobe", filepath.Join(t.TempDir(), "nope"), false)
	assert.Error(t, err)
}
