package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/vclaunch/internal/config"
	"github.com/mmr-tortoise/vclaunch/internal/ffmpeg"
	"github.com/mmr-tortoise/vclaunch/internal/model"
	"github.com/mmr-tortoise/vclaunch/internal/python"
)

// NewDoctorCommand creates the doctor command: probe everything the
// launch sequence depends on and report, without changing anything.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment without modifying it",
		Long: `Doctor probes every external dependency of the launch sequence —
Python interpreter, pip, ffmpeg, ffprobe — and the project-local state
(virtual environment, requirements manifest), then prints a report.

Doctor never modifies anything. It exits non-zero when a required piece
is missing, so it can gate scripted setups.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

// runDoctor builds and prints the environment report.
func runDoctor() error {
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

	report := buildEnvReport(project, manifest, settings)
	printEnvReport(report)

	if !report.AllRequiredPresent {
		// The report itself is the diagnosis; the error only sets the
		// exit code for scripted callers.
		return model.NewCLIError(model.ExitGeneralError, "environment is incomplete")
	}
	return nil
}

// buildEnvReport runs every probe and assembles the aggregate report.
func buildEnvReport(project string, manifest *config.Manifest, settings *config.Settings) model.EnvReport {
	var report model.EnvReport

	// A failed interpreter search still yields a useful BinaryStatus
	// (Found=false); doctor reports instead of aborting.
	report.Python, _ = python.FindInterpreter(settings.Python, manifest.PythonVersion)

	venv := python.NewVenv(manifest.VenvPath(project))
	report.Venv = venv.Status()
	report.VenvPath = venv.Dir
	report.Pip = python.ProbePip(venv)

	extraDirs := ffmpegSearchDirs(manifest, settings)
	report.FFmpeg = ffmpeg.ProbeVersion(ffmpeg.Locate("ffmpeg", extraDirs))
	report.FFprobe = ffmpeg.ProbeVersion(ffmpeg.Locate("ffprobe", extraDirs))

	report.RequirementsPath = manifest.RequirementsPath(project)
	if _, err := os.Stat(report.RequirementsPath); err == nil {
		report.RequirementsFound = true
	}

	report.Finalize()
	return report
}

// printEnvReport renders the report as JSON or human-readable text.
func printEnvReport(report model.EnvReport) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Println("Environment report:")
	fmt.Printf("  %s\n", report.Python)
	fmt.Printf("  %s\n", report.Pip)
	fmt.Printf("  %s\n", report.FFmpeg)
	fmt.Printf("  %s\n", report.FFprobe)
	fmt.Printf("  venv: %s (%s)\n", report.Venv, report.VenvPath)
	if report.RequirementsFound {
		fmt.Printf("  requirements: %s\n", report.RequirementsPath)
	} else {
		fmt.Printf("  requirements: not found (looked for %s)\n", report.RequirementsPath)
	}

	if report.AllRequiredPresent {
		fmt.Println("\nAll required components are present.")
	} else {
		fmt.Println("\nSome required components are missing.")
		if !report.FFmpeg.Found || !report.FFprobe.Found {
			fmt.Println(ffmpeg.RemediationMessage)
		}
	}
}
