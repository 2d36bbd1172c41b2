package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmr-tortoise/vclaunch/internal/model"
)

// lookPath is exec.LookPath behind a package variable so tests can stub
// PATH resolution.
var lookPath = exec.LookPath

// runVersion executes `<binary> -version` and returns its combined
// trimmed output. Stubbed in tests.
var runVersion = func(path string) (string, error) {
	out, err := exec.Command(path, "-version").CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// RemediationMessage is the static text printed when FFmpeg cannot be
// found anywhere. It is advice for a human operator; discovery itself
// performs no automatic remediation beyond the search already done.
const RemediationMessage = `FFmpeg was not found on PATH or in any conventional install directory.

To fix this, either:
  - install FFmpeg with your package manager (apt, brew, winget, ...)
  - run "vclaunch ffmpeg install" to download a prebuilt release
  - or add your existing FFmpeg bin directory to PATH manually`

// exeName appends ".exe" on Windows. Discovery checks concrete files in
// the fallback directories, so the platform suffix matters there;
// exec.LookPath handles it on its own for the PATH step.
func exeName(base string) string {
	return exeNameFor(base, runtime.GOOS)
}

// exeNameFor is the GOOS-parameterized form of exeName, for tests.
func exeNameFor(base, goos string) string {
	if goos == "windows" {
		return base + ".exe"
	}
	return base
}

// CandidateDirs returns the fixed list of conventional install
// directories probed when PATH lookup fails, for the given platform.
//
// The Windows list mirrors where the common installers and the bundled
// release installer put FFmpeg; the unix lists cover distro packages,
// Homebrew, and per-user installs. Directories derived from unset
// environment variables are omitted.
func CandidateDirs(goos string) []string {
	switch goos {
	case "windows":
		var dirs []string
		dirs = append(dirs, `C:\ffmpeg\bin`)
		if pf := os.Getenv("ProgramFiles"); pf != "" {
			dirs = append(dirs, filepath.Join(pf, "FFmpeg", "bin"))
		}
		if lad := os.Getenv("LOCALAPPDATA"); lad != "" {
			dirs = append(dirs, filepath.Join(lad, "FFmpeg", "bin"))
		}
		return dirs

	case "darwin":
		return []string{"/opt/homebrew/bin", "/usr/local/bin"}

	default: // linux and the rest of the unix family
		dirs := []string{"/usr/bin", "/usr/local/bin"}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, ".local", "bin"))
		}
		return dirs
	}
}

// Locate finds an executable of the FFmpeg toolchain (name is "ffmpeg"
// or "ffprobe").
//
// Search order:
//  1. PATH via exec.LookPath — a PATH-resolved binary always wins, even
//     when another copy exists in a fallback directory.
//  2. extraDirs — directories from the project manifest and the user
//     settings, in the order given.
//  3. The fixed per-OS candidate directories.
//
// First match wins; the fallback steps check for a plainly existing
// regular file, with no validation beyond presence (the version probe is
// separate and optional). Returns a BinaryStatus with Found=false when
// nothing is found — not an error, because callers differ on whether a
// missing binary is fatal.
func Locate(name string, extraDirs []string) model.BinaryStatus {
	// Step 1: PATH lookup.
	if path, err := lookPath(name); err == nil {
		return model.BinaryStatus{Name: name, Found: true, Path: path, OnPath: true}
	}

	// Steps 2+3: fallback directories, first match wins.
	dirs := append(append([]string{}, extraDirs...), CandidateDirs(runtime.GOOS)...)
	file := exeName(name)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, file)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return model.BinaryStatus{Name: name, Found: true, Path: candidate}
		}
	}

	return model.BinaryStatus{Name: name}
}

// ProbeVersion fills in the Version field of a located binary with the
// first line of its `-version` output (e.g. "ffmpeg version 6.1.1").
// A failed probe leaves Version empty; presence already counted.
func ProbeVersion(status model.BinaryStatus) model.BinaryStatus {
	if !status.Found {
		return status
	}

	out, err := runVersion(status.Path)
	if err != nil || out == "" {
		return status
	}
	status.Version = FirstLine(out)
	return status
}

// FirstLine returns the first line of a multi-line tool banner.
func FirstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// LocateRequired is Locate plus error translation: a missing binary
// becomes a CLIError with ExitFFmpegNotFound carrying the remediation
// message, for commands where FFmpeg is mandatory.
func LocateRequired(name string, extraDirs []string) (model.BinaryStatus, error) {
	status := Locate(name, extraDirs)
	if !status.Found {
		return status, model.NewCLIError(model.ExitFFmpegNotFound,
			fmt.Sprintf("%s not found\n\n%s", name, RemediationMessage))
	}
	return status, nil
}
