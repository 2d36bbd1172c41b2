package python

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmr-tortoise/vclaunch/internal/model"
)

// Venv represents a project-local Python virtual environment. The struct
// only records the directory; all state (present / ready / broken) is
// probed from the filesystem on demand.
type Venv struct {
	// Dir is the absolute path of the venv directory.
	Dir string
}

// NewVenv creates a Venv handle for the given directory. Nothing is
// touched on disk until EnsureCreated is called.
func NewVenv(dir string) *Venv {
	return &Venv{Dir: dir}
}

// Python returns the path of the interpreter inside the venv.
// The layout differs per platform: unix venvs put executables under
// bin/, Windows venvs under Scripts/ with an .exe suffix.
func (v *Venv) Python() string {
	return v.pythonFor(runtime.GOOS)
}

// pythonFor is the GOOS-parameterized form of Python, used by tests to
// verify both layouts from a single platform.
func (v *Venv) pythonFor(goos string) string {
	if goos == "windows" {
		return filepath.Join(v.Dir, "Scripts", "python.exe")
	}
	return filepath.Join(v.Dir, "bin", "python")
}

// configFile returns the path of pyvenv.cfg, which the venv module
// writes at the environment root. Its presence is the marker that a
// directory really is a venv, not just a directory with that name.
func (v *Venv) configFile() string {
	return filepath.Join(v.Dir, "pyvenv.cfg")
}

// Status probes the venv's state:
//   - missing: the directory (or pyvenv.cfg) does not exist
//   - ready:   pyvenv.cfg and the interpreter are both present
//   - broken:  pyvenv.cfg exists but the interpreter is gone
func (v *Venv) Status() model.SetupStatus {
	if _, err := os.Stat(v.configFile()); err != nil {
		return model.StatusMissing
	}
	if _, err := os.Stat(v.Python()); err != nil {
		return model.StatusBroken
	}
	return model.StatusReady
}

// EnsureCreated makes sure the virtual environment exists, creating it
// with `<python> -m venv <dir>` when absent. The existence check runs
// first, so repeated calls never recreate an existing venv.
//
// A broken venv (directory present, interpreter gone) is reported as an
// error rather than silently rebuilt: the directory may contain user
// data, and the remediation (delete it) should be an explicit choice.
//
// The interpreterPath parameter is the system Python used for creation;
// it is unused when the venv already exists.
func (v *Venv) EnsureCreated(interpreterPath string) error {
	switch v.Status() {
	case model.StatusReady:
		return nil

	case model.StatusBroken:
		return model.NewCLIError(model.ExitVenvFailed,
			fmt.Sprintf("virtual environment at %s is broken (interpreter missing) — delete the directory and run setup again", v.Dir))
	}

	// missing — create it.
	if err := runPython(interpreterPath, "", "-m", "venv", v.Dir); err != nil {
		return model.WrapCLIError(model.ExitVenvFailed,
			fmt.Sprintf("failed to create virtual environment at %s", v.Dir), err)
	}
	return nil
}

// runPython executes a python command with the given arguments, capturing
// stdout and stderr. On failure it returns an error that includes the
// stderr output for diagnostics. dir sets the working directory when
// non-empty.
//
// This mirrors how launcher commands are invoked throughout the package:
// quiet on success, loud with captured stderr on failure. The app launch
// itself (Runner.RunModule) deliberately does NOT use this helper because
// the GUI process must inherit the terminal's stdio.
func runPython(pythonPath, dir string, args ...string) error {
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.Command(pythonPath, args...)
	cmd.Dir = dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("python %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return fmt.Errorf("%s: %w", message, err)
	}
	return nil
}
