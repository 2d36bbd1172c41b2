package python

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/vclaunch/internal/model"
)

// Runner executes commands inside a project's virtual environment: pip
// installs and the application module itself. It pairs a Venv with the
// project directory the application runs from.
type Runner struct {
	// Venv is the virtual environment whose interpreter is used.
	Venv *Venv

	// ProjectDir is the working directory for all commands, and the
	// directory appended to PYTHONPATH so `python -m src.main` can
	// resolve the application package.
	ProjectDir string
}

// NewRunner creates a Runner for the given venv and project directory.
func NewRunner(venv *Venv, projectDir string) *Runner {
	return &Runner{Venv: venv, ProjectDir: projectDir}
}

// SyncDeps installs/upgrades the project dependencies from a
// requirements manifest using the venv's own pip:
//
//	<venv python> -m pip install --upgrade -r <requirements>
//
// pip's output streams to the launcher's stdout/stderr so the user sees
// install progress exactly as the original scripts showed it.
//
// The returned error is a plain error, not a CLIError: callers decide
// fatality. The launch command downgrades it to a warning (the original
// scripts never checked the installer's exit status); the setup command
// treats it as fatal.
func (r *Runner) SyncDeps(ctx context.Context, requirementsPath string) error {
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.CommandContext(ctx, r.Venv.Python(),
		"-m", "pip", "install", "--upgrade", "-r", requirementsPath)
	cmd.Dir = r.ProjectDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pip install -r %s failed: %w", requirementsPath, err)
	}
	return nil
}

// RunModule launches the application module in the foreground:
//
//	<venv python> -m <module>
//
// The child inherits the launcher's stdin/stdout/stderr, runs in the
// project directory, and gets PYTHONPATH extended with the project
// directory (appended, preserving any existing value) so relative
// package imports resolve — the same environment the original activate-
// and-run scripts produced.
//
// Returns the child's exit code. A non-zero exit is NOT an error here:
// (exitCode, nil) is returned and the caller decides how to surface it.
// An error is returned only when the process could not be started or
// was killed without an exit code.
func (r *Runner) RunModule(ctx context.Context, module string, extraEnv map[string]string) (int, error) {
	// #nosec G204 — module comes from the project manifest, not remote input
	cmd := exec.CommandContext(ctx, r.Venv.Python(), "-m", module)
	cmd.Dir = r.ProjectDir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = buildEnv(os.Environ(), r.ProjectDir, extraEnv)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	// An ExitError means the process ran and exited non-zero — that is
	// the application's outcome, not a launcher failure.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}

	return -1, model.WrapCLIError(model.ExitGeneralError,
		fmt.Sprintf("failed to run python -m %s", module), err)
}

// buildEnv produces the child process environment: the parent's
// environment with PYTHONPATH extended by projectDir and any manifest
// env entries applied.
//
// PYTHONPATH handling matches the original launcher scripts: the project
// directory is appended to whatever PYTHONPATH the user already has, not
// substituted for it. Manifest entries may not override PYTHONPATH —
// the launcher owns that variable.
func buildEnv(parent []string, projectDir string, extraEnv map[string]string) []string {
	env := make([]string, 0, len(parent)+len(extraEnv)+1)

	pythonPath := projectDir
	for _, kv := range parent {
		key, value, _ := strings.Cut(kv, "=")
		if strings.EqualFold(key, "PYTHONPATH") {
			if value != "" {
				pythonPath = value + string(os.PathListSeparator) + projectDir
			}
			continue
		}
		if _, overridden := extraEnv[key]; overridden {
			continue
		}
		env = append(env, kv)
	}

	for key, value := range extraEnv {
		if strings.EqualFold(key, "PYTHONPATH") {
			continue
		}
		env = append(env, key+"="+value)
	}

	env = append(env, "PYTHONPATH="+pythonPath)
	return env
}
