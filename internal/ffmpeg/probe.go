package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// videoExtensions are the container formats considered video files by
// the codec scanner. Matching is case-insensitive on the extension.
var videoExtensions = map[string]bool{
	".mp4": true,
	".mkv": true,
	".avi": true,
	".mov": true,
	".flv": true,
	".wmv": true,
}

// IsVideoFile reports whether the filename has a recognized video
// container extension.
func IsVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// VideoCodec asks ffprobe for the codec of the first video stream in a
// file:
//
//	ffprobe -v error -select_streams v:0 -show_entries stream=codec_name
//	        -of default=noprint_wrappers=1:nokey=1 <file>
//
// Returns the lowercase codec name ("hevc", "h264", "av1", ...), or an
// empty string with no error when the file has no video stream.
// ffprobePath is the previously located ffprobe binary.
func VideoCodec(ctx context.Context, ffprobePath, file string) (string, error) {
	// #nosec G204 — ffprobePath comes from our own discovery, file from the operator
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name",
		"-of", "default=noprint_wrappers=1:nokey=1",
		file)

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("ffprobe failed for %s: %w", file, err)
	}
	return strings.ToLower(strings.TrimSpace(string(out))), nil
}

// ScanResult describes one scanned file.
type ScanResult struct {
	// Name is the file's base name.
	Name string `json:"name"`

	// Codec is the detected video codec, or "" when probing failed.
	Codec string `json:"codec"`

	// IsHEVC reports whether the file is already HEVC-encoded.
	IsHEVC bool `json:"isHevc"`

	// Moved reports whether the file was relocated to the sort folder
	// (only when scanning with move enabled).
	Moved bool `json:"moved"`

	// Err holds the probe error message, if any.
	Err string `json:"error,omitempty"`
}

// SortFolderName returns the name of the subfolder non-HEVC files are
// moved into: "<dirname>_notX265", created inside the scanned directory.
func SortFolderName(dir string) string {
	return filepath.Base(filepath.Clean(dir)) + "_notX265"
}

// videoCodec is VideoCodec behind a package variable so ScanDir tests
// can stub the probe without a real ffprobe binary.
var videoCodec = VideoCodec

// ScanDir probes every video file directly inside dir (non-recursive)
// and reports which are not HEVC-encoded. When move is true, non-HEVC
// files are relocated into the sort folder, which is created on demand
// and skipped during the walk so repeated runs are stable.
//
// Files that fail to probe are reported with their error and never
// moved. Results are sorted by name for deterministic output.
func ScanDir(ctx context.Context, ffprobePath, dir string, move bool) ([]ScanResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	sortFolder := SortFolderName(dir)
	sortPath := filepath.Join(dir, sortFolder)

	var results []ScanResult
	for _, entry := range entries {
		// Skip subdirectories, including a sort folder left by an
		// earlier run.
		if entry.IsDir() {
			continue
		}
		if !IsVideoFile(entry.Name()) {
			continue
		}

		res := ScanResult{Name: entry.Name()}
		filePath := filepath.Join(dir, entry.Name())

		codec, err := videoCodec(ctx, ffprobePath, filePath)
		if err != nil {
			res.Err = err.Error()
			results = append(results, res)
			continue
		}

		res.Codec = codec
		res.IsHEVC = codec == "hevc"

		if !res.IsHEVC && move {
			if err := os.MkdirAll(sortPath, 0o755); err != nil {
				return results, fmt.Errorf("failed to create %s: %w", sortPath, err)
			}
			if err := os.Rename(filePath, filepath.Join(sortPath, entry.Name())); err != nil {
				res.Err = err.Error()
			} else {
				res.Moved = true
			}
		}

		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
	return results, nil
}
