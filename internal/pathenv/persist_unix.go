//go:build !windows

package pathenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PersistAppend permanently adds dir to the user's PATH by appending an
// export line to their shell profile. Returns the file that was (or
// would have been) modified, and whether a change was actually written.
//
// There is no single "user PATH" on unix systems, so this follows the
// same convention the FFmpeg install guides use: append to the
// interactive shell's rc file, picked from $SHELL. The append is
// skipped when the profile already exports this directory, so repeated
// confirmations never duplicate the entry.
func PersistAppend(dir string) (string, bool, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("cannot determine home directory: %w", err)
	}
	profile := profileFile(home, os.Getenv("SHELL"))
	changed, err := appendToProfile(profile, dir)
	return profile, changed, err
}

// profileFile picks the rc file for the user's shell: .zshrc for zsh,
// .bashrc for bash, and the POSIX .profile for anything else.
func profileFile(home, shell string) string {
	switch filepath.Base(shell) {
	case "zsh":
		return filepath.Join(home, ".zshrc")
	case "bash":
		return filepath.Join(home, ".bashrc")
	default:
		return filepath.Join(home, ".profile")
	}
}

// exportLine is the line appended to the profile for a directory.
func exportLine(dir string) string {
	return fmt.Sprintf(`export PATH="$PATH:%s"`, dir)
}

// appendToProfile appends the export line for dir to the profile file,
// creating it when absent. Returns false without writing when the exact
// line is already present.
func appendToProfile(profile, dir string) (bool, error) {
	line := exportLine(dir)

	existing, err := os.ReadFile(profile)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %s: %w", profile, err)
	}

	for _, l := range strings.Split(string(existing), "\n") {
		if strings.TrimSpace(l) == line {
			return false, nil
		}
	}

	f, err := os.OpenFile(profile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", profile, err)
	}
	defer func() { _ = f.Close() }()

	// Start on a fresh line even when the file lacks a trailing newline.
	prefix := ""
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		prefix = "\n"
	}
	if _, err := fmt.Fprintf(f, "%s# added by vclaunch (ffmpeg)\n%s\n", prefix, line); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", profile, err)
	}
	return true, nil
}
