package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmr-tortoise/vclaunch/internal/config"
	"github.com/mmr-tortoise/vclaunch/internal/ffmpeg"
	"github.com/mmr-tortoise/vclaunch/internal/model"
	"github.com/mmr-tortoise/vclaunch/internal/pathenv"
	"github.com/mmr-tortoise/vclaunch/internal/python"
)

// launchFlags holds the command-line flags for the launch command.
type launchFlags struct {
	// skipDeps skips the pip dependency sync before starting the app.
	skipDeps bool

	// noPause disables the "press Enter" pause after a non-zero app exit.
	noPause bool
}

// NewLaunchCommand creates the launch command, the default workflow of the
// tool: bootstrap the environment, then run the application in the
// foreground and mirror its exit code.
//
// Design note: launch is deliberately forgiving. A failed dependency sync
// or a missing ffmpeg produce warnings, not errors — the GUI may still be
// perfectly usable (dependencies already installed from a previous run,
// conversions simply unavailable until ffmpeg appears). Only problems that
// make starting the app impossible (no Python, venv cannot be created)
// abort the launch. The setup command is the strict counterpart.
func NewLaunchCommand() *cobra.Command {
	flags := &launchFlags{}

	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Bootstrap the environment and start the application",
		Long: `Launch performs the full startup sequence:

  1. Find a Python interpreter
  2. Create the virtual environment if it does not exist
  3. Sync dependencies from the requirements manifest (failures warn)
  4. Locate ffmpeg/ffprobe, extending PATH for this process if needed
  5. Run the application module in the foreground

The launcher exits with the application's own exit code. After a non-zero
exit it waits for Enter so the error output stays readable when the
launcher was started from a double-click.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.skipDeps, "skip-deps", false, "Skip the dependency sync step")
	cmd.Flags().BoolVar(&flags.noPause, "no-pause", false, "Do not pause after a non-zero application exit")

	return cmd
}

// runLaunch implements the launch sequence.
func runLaunch(ctx context.Context, flags *launchFlags) error {
	project, err := filepath.Abs(projectDir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "resolving project directory", err)
	}

	manifest, err := config.LoadProjectManifest(project)
	if err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		// User settings are a convenience layer; a corrupt file should
		// not block launching.
		Warn("ignoring unreadable settings: %v", err)
		settings = &config.Settings{}
	}

	// Step 1: interpreter.
	py, err := python.FindInterpreter(settings.Python, manifest.PythonVersion)
	if err != nil {
		return err
	}
	VerboseLog("using interpreter %s (%s)", py.Path, py.Version)

	// Step 2: virtual environment.
	venv := python.NewVenv(manifest.VenvPath(project))
	if err := venv.EnsureCreated(py.Path); err != nil {
		return err
	}

	runner := python.NewRunner(venv, project)

	// Step 3: dependency sync. Failures warn and the launch continues.
	syncDependencies(ctx, runner, manifest.RequirementsPath(project),
		flags.skipDeps || settings.AlwaysSkipDeps)

	// Step 4: ffmpeg discovery. Found off PATH extends PATH for this
	// process only, so the Python app can spawn ffmpeg by bare name.
	// Persisting the change is the ffmpeg subcommand's job.
	extraDirs := ffmpegSearchDirs(manifest, settings)
	ff := ffmpeg.Locate("ffmpeg", extraDirs)
	if !ff.Found {
		Warn("ffmpeg was not found; video conversion will be unavailable")
		Warn("%s", ffmpeg.RemediationMessage)
	} else if !ff.OnPath {
		dir := filepath.Dir(ff.Path)
		if changed, err := pathenv.SessionAppend(dir); err != nil {
			Warn("could not extend PATH with %s: %v", dir, err)
		} else if changed {
			VerboseLog("extended PATH for this process with %s", dir)
		}
	}

	// Step 5: run the application module.
	exitCode, err := runner.RunModule(ctx, manifest.AppModule, manifest.Env)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "starting the application", err)
	}

	if exitCode != 0 {
		fmt.Fprintf(os.Stderr, "\nThe application exited with code %d.\n", exitCode)
		if shouldPause(exitCode, flags.noPause, term.IsTerminal(int(os.Stdin.Fd()))) {
			waitForEnter()
		}
		// Mirror the application's exit code so scripts wrapping the
		// launcher see the real outcome.
		return model.NewCLIError(model.ExitCode(exitCode), fmt.Sprintf("application exited with code %d", exitCode))
	}

	return nil
}

// depsSyncer is the slice of python.Runner the sync step needs. Tests
// substitute a stub to exercise the warn-and-continue behavior without
// a real venv.
type depsSyncer interface {
	SyncDeps(ctx context.Context, requirementsPath string) error
}

// syncDependencies runs the dependency sync step of the launch sequence.
// It never aborts the launch: a missing requirements manifest or a failed
// install is surfaced as a warning, reported through the return value,
// and the caller proceeds to start the application regardless — the app
// may run fine on dependencies installed by an earlier launch. Returns
// true only when a sync actually ran and succeeded.
func syncDependencies(ctx context.Context, syncer depsSyncer, reqPath string, skip bool) bool {
	if skip {
		VerboseLog("skipping dependency sync")
		return false
	}

	if _, err := os.Stat(reqPath); err != nil {
		Warn("requirements manifest not found at %s; continuing without dependency sync", reqPath)
		return false
	}

	if err := syncer.SyncDeps(ctx, reqPath); err != nil {
		Warn("dependency sync failed: %v", err)
		Warn("the application may not work correctly")
		return false
	}
	return true
}

// ffmpegSearchDirs collects the extra directories to probe for ffmpeg
// beyond the built-in per-platform candidates: manifest-declared dirs
// first, then the directory remembered in user settings.
func ffmpegSearchDirs(manifest *config.Manifest, settings *config.Settings) []string {
	dirs := append([]string{}, manifest.FFmpegDirs...)
	if settings.FFmpegDir != "" {
		dirs = append(dirs, settings.FFmpegDir)
	}
	return dirs
}

// shouldPause decides whether launch blocks for Enter after the
// application exits: only after a failure (non-zero exit), only when the
// user did not pass --no-pause, and only when stdin is an interactive
// terminal. When the launcher runs unattended (CI, piped stdin) there is
// nobody to press Enter, and blocking would hang.
func shouldPause(exitCode int, noPause, isTTY bool) bool {
	return exitCode != 0 && !noPause && isTTY
}

// waitForEnter blocks until the user presses Enter (or stdin closes).
func waitForEnter() {
	fmt.Fprint(os.Stderr, "Press Enter to close...")
	bufio.NewScanner(os.Stdin).Scan()
}
