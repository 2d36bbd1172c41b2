package python

import (
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/mmr-tortoise/vclaunch/internal/model"
)

// lookPath is exec.LookPath behind a package variable so tests can stub
// binary resolution without needing real interpreters installed.
var lookPath = exec.LookPath

// runOutput executes a command and returns its combined trimmed output.
// Stubbed in tests for version probing.
var runOutput = func(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// candidateNames returns the interpreter names probed on PATH, in
// priority order. Windows ships the "py" launcher which dispatches to
// the newest installed Python; unix systems conventionally expose
// "python3" and sometimes a bare "python".
func candidateNames() []string {
	return candidateNamesFor(runtime.GOOS)
}

// candidateNamesFor is the GOOS-parameterized form of candidateNames,
// used by tests to verify both platforms' probe order from one platform.
func candidateNamesFor(goos string) []string {
	if goos == "windows" {
		return []string{"py", "python3", "python"}
	}
	return []string{"python3", "python"}
}

// versionRe matches the "Python 3.11.4" line printed by --version.
var versionRe = regexp.MustCompile(`Python (\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion extracts (major, minor) from a `python --version` output
// line. Returns an error when the output does not look like a CPython
// version banner.
func ParseVersion(output string) (major, minor int, err error) {
	m := versionRe.FindStringSubmatch(output)
	if m == nil {
		return 0, 0, fmt.Errorf("unrecognized python version output: %q", output)
	}
	// The regexp guarantees digit-only submatches, so Atoi cannot fail.
	major, _ = strconv.Atoi(m[1])
	minor, _ = strconv.Atoi(m[2])
	return major, minor, nil
}

// parseMinVersion parses a "major.minor" constraint string from the
// manifest (e.g. "3.7").
func parseMinVersion(constraint string) (major, minor int, err error) {
	parts := strings.SplitN(constraint, ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("invalid python version constraint: %q", constraint)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid python version constraint: %q", constraint)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid python version constraint: %q", constraint)
	}
	return major, minor, nil
}

// FindInterpreter locates a Python interpreter that satisfies the
// minimum version constraint.
//
// The search order:
//  1. override, when non-empty — an explicit executable name or path
//     from the user settings or manifest. It must still satisfy the
//     version constraint; an override pointing at an old Python is an
//     error, not a silent fallback.
//  2. Platform candidates ("py"/"python" on Windows, "python3"/"python"
//     elsewhere) resolved through PATH, first satisfying match wins.
//
// Returns a model.CLIError with ExitPythonNotFound when no acceptable
// interpreter exists.
func FindInterpreter(override, minVersion string) (model.BinaryStatus, error) {
	minMajor, minMinor, err := parseMinVersion(minVersion)
	if err != nil {
		return model.BinaryStatus{}, model.WrapCLIError(model.ExitGeneralError,
			"invalid pythonVersion in manifest", err)
	}

	names := candidateNames()
	if override != "" {
		names = []string{override}
	}

	var lastProbe string
	for _, name := range names {
		path, err := lookPath(name)
		if err != nil {
			continue
		}

		out, err := runOutput(path, "--version")
		if err != nil {
			lastProbe = fmt.Sprintf("%s: %v", path, err)
			continue
		}

		major, minor, err := ParseVersion(out)
		if err != nil {
			lastProbe = fmt.Sprintf("%s: %v", path, err)
			continue
		}

		if major > minMajor || (major == minMajor && minor >= minMinor) {
			return model.BinaryStatus{
				Name:    "python",
				Found:   true,
				Path:    path,
				Version: out,
				OnPath:  true,
			}, nil
		}
		lastProbe = fmt.Sprintf("%s is %s (need >= %s)", path, out, minVersion)
	}

	message := fmt.Sprintf("no Python >= %s interpreter found (tried: %s)",
		minVersion, strings.Join(names, ", "))
	if lastProbe != "" {
		message = fmt.Sprintf("%s; last probe: %s", message, lastProbe)
	}
	return model.BinaryStatus{Name: "python"}, model.NewCLIError(model.ExitPythonNotFound, message)
}
