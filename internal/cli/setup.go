package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/vclaunch/internal/config"
	"github.com/mmr-tortoise/vclaunch/internal/model"
	"github.com/mmr-tortoise/vclaunch/internal/python"
)

// setupFlags holds the command-line flags for the setup command.
type setupFlags struct {
	// skipDeps creates the venv but skips the pip install step.
	skipDeps bool
}

// setupResult carries the outcome of a setup run for output formatting.
type setupResult struct {
	Python       string `json:"python"`
	Venv         string `json:"venv"`
	VenvCreated  bool   `json:"venvCreated"`
	Requirements string `json:"requirements,omitempty"`
	DepsSynced   bool   `json:"depsSynced"`
}

// NewSetupCommand creates the setup command: prepare the environment
// without starting the application.
//
// Unlike launch, setup is strict: a missing requirements manifest or a
// failed install is an error, because the whole point of running setup
// explicitly is to end up with a working environment.
func NewSetupCommand() *cobra.Command {
	flags := &setupFlags{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the virtual environment and install dependencies",
		Long: `Setup prepares the project environment without launching the app:
it finds a Python interpreter, creates the virtual environment if it does
not exist, and installs the dependencies from the requirements manifest.

Setup is strict where launch is forgiving: a missing requirements file or
a failed install makes setup fail, so it can be used to verify that the
environment actually works.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.skipDeps, "skip-deps", false, "Create the venv but skip dependency installation")

	return cmd
}

// runSetup implements the setup workflow.
func runSetup(ctx context.Context, flags *setupFlags) error {
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
		Warn("ignoring unreadable settings: %v", err)
		settings = &config.Settings{}
	}

	py, err := python.FindInterpreter(settings.Python, manifest.PythonVersion)
	if err != nil {
		return err
	}
	VerboseLog("using interpreter %s (%s)", py.Path, py.Version)

	venv := python.NewVenv(manifest.VenvPath(project))
	venvExisted := venv.Status() == model.StatusReady
	if err := venv.EnsureCreated(py.Path); err != nil {
		return err
	}

	result := setupResult{
		Python:      py.Path,
		Venv:        venv.Dir,
		VenvCreated: !venvExisted,
	}

	if !flags.skipDeps {
		reqPath := manifest.RequirementsPath(project)
		if _, statErr := os.Stat(reqPath); statErr != nil {
			return model.NewCLIError(model.ExitManifestNotFound,
				fmt.Sprintf("requirements manifest not found at %s", reqPath))
		}

		runner := python.NewRunner(venv, project)
		if err := runner.SyncDeps(ctx, reqPath); err != nil {
			return model.WrapCLIError(model.ExitInstallFailed, "installing dependencies", err)
		}
		result.Requirements = reqPath
		result.DepsSynced = true
	}

	printSetupResult(result)
	return nil
}

// printSetupResult outputs the setup summary in text or JSON format.
func printSetupResult(result setupResult) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	if result.VenvCreated {
		fmt.Printf("Created virtual environment at %s\n", result.Venv)
	} else {
		fmt.Printf("Virtual environment already present at %s\n", result.Venv)
	}
	if result.DepsSynced {
		fmt.Printf("Dependencies installed from %s\n", result.Requirements)
	}
	fmt.Println("Setup complete.")
}
