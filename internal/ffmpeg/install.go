package ffmpeg

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// DefaultReleaseURL is the prebuilt release archive fetched by the
// installer when no --url override is given. The gyan.dev essentials
// build is the conventional Windows distribution; on other platforms the
// package manager is the recommended route and the URL must be provided
// explicitly.
const DefaultReleaseURL = "https://www.gyan.dev/ffmpeg/builds/ffmpeg-release-essentials.zip"

// downloadTimeout bounds the whole archive download. Release archives
// are ~80 MB; ten minutes accommodates slow links without hanging
// forever on a dead one.
const downloadTimeout = 10 * time.Minute

// DefaultInstallDir returns the directory the downloaded tools are
// unpacked into when the user gives no override.
func DefaultInstallDir() (string, error) {
	if runtime.GOOS == "windows" {
		if pf := os.Getenv("ProgramFiles"); pf != "" {
			return filepath.Join(pf, "FFmpeg", "bin"), nil
		}
		return `C:\ffmpeg\bin`, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "bin"), nil
}

// Download fetches the release archive at url into destDir, rendering a
// progress bar on stderr (stdout stays reserved for command output).
// Returns the path of the downloaded file.
func Download(ctx context.Context, url, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid download URL %q: %w", url, err)
	}

	client := &http.Client{Timeout: downloadTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: server returned %s for %s", resp.Status, url)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	archivePath := filepath.Join(destDir, filepath.Base(req.URL.Path))
	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", archivePath, err)
	}
	defer func() { _ = out.Close() }()

	// ContentLength may be -1 (chunked transfer); the bar then renders
	// as a spinner with a byte counter instead of a percentage.
	bar := progressbar.DefaultBytes(resp.ContentLength, "downloading ffmpeg")
	if _, err := io.Copy(io.MultiWriter(out, bar), resp.Body); err != nil {
		return "", fmt.Errorf("download interrupted: %w", err)
	}
	_ = bar.Finish()

	return archivePath, nil
}

// ExtractTools unpacks the ffmpeg executables from a release zip into
// installDir and returns the number of files written.
//
// Release archives nest the binaries under a versioned top directory
// (e.g. ffmpeg-6.1-essentials_build/bin/ffmpeg.exe), so entries are
// matched by their path containing a bin/ segment rather than by a
// fixed prefix. Only regular files directly inside bin/ are extracted,
// flattened into installDir.
func ExtractTools(archivePath, installDir string) (int, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer func() { _ = reader.Close() }()

	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create install directory: %w", err)
	}

	extracted := 0
	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !isBinEntry(file.Name) {
			continue
		}

		if err := extractOne(file, installDir); err != nil {
			return extracted, err
		}
		extracted++
	}

	if extracted == 0 {
		return 0, fmt.Errorf("no bin/ tools found in archive %s", archivePath)
	}
	return extracted, nil
}

// isBinEntry reports whether a zip entry path points directly into a
// bin/ directory (any nesting level above it).
func isBinEntry(name string) bool {
	// Zip paths always use forward slashes regardless of platform.
	parts := strings.Split(filepath.ToSlash(name), "/")
	return len(parts) >= 2 && parts[len(parts)-2] == "bin"
}

// extractOne writes a single zip entry into installDir under its base
// name. The entry's path inside the archive is discarded, so the tools
// land flat in the install directory.
func extractOne(file *zip.File, installDir string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to read %s from archive: %w", file.Name, err)
	}
	defer func() { _ = src.Close() }()

	// filepath.Base guards against zip-slip: the archive cannot dictate
	// a path outside installDir.
	destPath := filepath.Join(installDir, filepath.Base(file.Name))
	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer func() { _ = dest.Close() }()

	if _, err := io.Copy(dest, src); err != nil {
		return fmt.Errorf("failed to extract %s: %w", destPath, err)
	}
	return nil
}

// Install downloads the release archive at url and unpacks its tools
// into installDir, cleaning up the archive afterwards. Returns the
// number of tools installed.
func Install(ctx context.Context, url, installDir string) (int, error) {
	tmpDir, err := os.MkdirTemp("", "vclaunch-ffmpeg-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	archivePath, err := Download(ctx, url, tmpDir)
	if err != nil {
		return 0, err
	}

	return ExtractTools(archivePath, installDir)
}
