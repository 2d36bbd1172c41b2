package pathenv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Contains reports whether dir is already an entry of the PATH-style
// value pathVar. Comparison is entry-wise (no substring matches),
// trailing-separator-insensitive, and case-insensitive on Windows,
// where the filesystem and the registry both fold case.
func Contains(pathVar, dir string) bool {
	return containsFor(pathVar, dir, runtime.GOOS)
}

// containsFor is the GOOS-parameterized form of Contains, for tests.
func containsFor(pathVar, dir, goos string) bool {
	target := normalizeEntry(dir, goos)
	if target == "" {
		return false
	}

	for _, entry := range strings.Split(pathVar, string(os.PathListSeparator)) {
		if normalizeEntry(entry, goos) == target {
			return true
		}
	}
	return false
}

// normalizeEntry canonicalizes a single PATH entry for comparison:
// surrounding whitespace and a trailing separator are dropped, and on
// Windows the entry is lower-cased.
func normalizeEntry(entry, goos string) string {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return ""
	}
	entry = strings.TrimRight(entry, `/\`)
	entry = filepath.Clean(entry)
	if goos == "windows" {
		entry = strings.ToLower(entry)
	}
	return entry
}

// Append returns pathVar with dir appended, or pathVar unchanged when
// dir is already present — the de-duplication guard that applies to
// every PATH mutation vclaunch performs.
func Append(pathVar, dir string) string {
	if Contains(pathVar, dir) {
		return pathVar
	}
	if pathVar == "" {
		return dir
	}
	return pathVar + string(os.PathListSeparator) + dir
}

// SessionAppend appends dir to the current process's PATH so child
// processes (the launched application) inherit it. Returns true when
// PATH actually changed.
func SessionAppend(dir string) (bool, error) {
	current := os.Getenv("PATH")
	updated := Append(current, dir)
	if updated == current {
		return false, nil
	}
	return true, os.Setenv("PATH", updated)
}
