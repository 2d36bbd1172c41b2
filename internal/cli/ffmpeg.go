package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/vclaunch/internal/config"
	"github.com/mmr-tortoise/vclaunch/internal/ffmpeg"
	"github.com/mmr-tortoise/vclaunch/internal/model"
	"github.com/mmr-tortoise/vclaunch/internal/pathenv"
)

// NewFFmpegCommand creates the ffmpeg parent command grouping the
// locate and install subcommands.
func NewFFmpegCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ffmpeg",
		Short: "Locate or install the FFmpeg tools",
		Long: `The ffmpeg subcommands manage the external FFmpeg dependency:

  locate   find ffmpeg/ffprobe and optionally persist their directory on PATH
  install  download an FFmpeg release and extract the tools`,
	}

	cmd.AddCommand(newFFmpegLocateCommand())
	cmd.AddCommand(newFFmpegInstallCommand())

	return cmd
}

// ffmpegLocateFlags holds the flags for "ffmpeg locate".
type ffmpegLocateFlags struct {
	// persist appends the found directory to the user's persistent PATH.
	persist bool

	// yes skips the confirmation prompt before persisting.
	yes bool
}

// locateResult is the JSON shape of a locate run.
type locateResult struct {
	FFmpeg    model.BinaryStatus `json:"ffmpeg"`
	FFprobe   model.BinaryStatus `json:"ffprobe"`
	Persisted bool               `json:"persisted"`
	Target    string             `json:"target,omitempty"`
}

func newFFmpegLocateCommand() *cobra.Command {
	flags := &ffmpegLocateFlags{}

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Find the FFmpeg tools and optionally persist their location",
		Long: `Locate searches for ffmpeg and ffprobe: first on PATH, then in the
conventional per-platform install directories, then in any directories
named by the project manifest or user settings.

When the tools are found off PATH, --persist appends their directory to
the user's persistent PATH (the Windows user environment, or the shell
profile elsewhere) after a confirmation prompt. The append is skipped
when the directory is already on PATH. The change takes effect in new
terminals, not the current one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFFmpegLocate(flags)
		},
	}

	cmd.Flags().BoolVar(&flags.persist, "persist", false, "Persist the found directory on the user PATH")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Do not prompt before persisting")

	return cmd
}

// runFFmpegLocate implements the locate workflow.
func runFFmpegLocate(flags *ffmpegLocateFlags) error {
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

	extraDirs := ffmpegSearchDirs(manifest, settings)
	ff, err := ffmpeg.LocateRequired("ffmpeg", extraDirs)
	if err != nil {
		return err
	}
	ff = ffmpeg.ProbeVersion(ff)

	// ffprobe normally lives next to ffmpeg; report it but do not fail
	// on it, the remediation is the same either way.
	probe := ffmpeg.ProbeVersion(ffmpeg.Locate("ffprobe", extraDirs))

	result := locateResult{FFmpeg: ff, FFprobe: probe}

	if flags.persist && !ff.OnPath {
		dir := filepath.Dir(ff.Path)

		confirmed := flags.yes
		if !confirmed {
			confirmed, err = promptYesNo(fmt.Sprintf("Append %s to your PATH permanently?", dir))
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "reading confirmation", err)
			}
		}

		if !confirmed {
			// Declining persistence is a valid outcome, not an error:
			// the tools were found, the user just keeps PATH untouched.
			printLocateResult(result, "PATH not modified.")
			return nil
		}

		target, changed, err := pathenv.PersistAppend(dir)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "updating PATH", err)
		}
		result.Persisted = changed
		result.Target = target

		// Remember the directory so future launches probe it directly,
		// even before a new terminal picks up the PATH change.
		settings.FFmpegDir = dir
		if err := config.SaveSettings(settings); err != nil {
			Warn("could not save settings: %v", err)
		}

		if changed {
			printLocateResult(result, fmt.Sprintf("Added %s to PATH via %s. Open a new terminal for it to take effect.", dir, target))
		} else {
			printLocateResult(result, fmt.Sprintf("%s is already on PATH (%s).", dir, target))
		}
		return nil
	}

	printLocateResult(result, "")
	return nil
}

// printLocateResult renders a locate outcome as JSON or text.
func printLocateResult(result locateResult, note string) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Println(result.FFmpeg.String())
	fmt.Println(result.FFprobe.String())
	if note != "" {
		fmt.Println(note)
	}
}

// ffmpegInstallFlags holds the flags for "ffmpeg install".
type ffmpegInstallFlags struct {
	// url overrides the release archive to download.
	url string

	// dir overrides the installation directory.
	dir string

	// yes skips the confirmation prompt.
	yes bool

	// persist appends the install directory to the user's persistent
	// PATH after a successful install.
	persist bool
}

func newFFmpegInstallCommand() *cobra.Command {
	flags := &ffmpegInstallFlags{}

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download an FFmpeg release and extract the tools",
		Long: `Install downloads an FFmpeg release archive and extracts the command
line tools (ffmpeg, ffprobe, ffplay) into a local directory, by default
the per-user data directory.

This is a convenience for machines without a package manager. On macOS
and Linux prefer the system package manager (brew install ffmpeg,
apt install ffmpeg); the default download URL serves Windows builds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFFmpegInstall(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.url, "url", ffmpeg.DefaultReleaseURL, "Release archive URL to download")
	cmd.Flags().StringVar(&flags.dir, "dir", "", "Installation directory (default: per-user data directory)")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Do not prompt for confirmation")
	cmd.Flags().BoolVar(&flags.persist, "persist", false, "Persist the install directory on the user PATH")

	return cmd
}

// runFFmpegInstall implements the install workflow.
func runFFmpegInstall(ctx context.Context, flags *ffmpegInstallFlags) error {
	installDir := flags.dir
	if installDir == "" {
		var err error
		installDir, err = ffmpeg.DefaultInstallDir()
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "resolving install directory", err)
		}
	}

	if !flags.yes {
		confirmed, err := promptYesNo(fmt.Sprintf("Download FFmpeg from %s and install into %s?", flags.url, installDir))
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "reading confirmation", err)
		}
		if !confirmed {
			return model.NewCLIError(model.ExitUserCancelled, "installation cancelled")
		}
	}

	count, err := ffmpeg.Install(ctx, flags.url, installDir)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "installing ffmpeg", err)
	}
	fmt.Printf("Installed %d tool(s) into %s\n", count, installDir)

	// Remember the directory so launch finds the tools without any PATH
	// change at all.
	settings, err := config.LoadSettings()
	if err != nil {
		settings = &config.Settings{}
	}
	settings.FFmpegDir = installDir
	if err := config.SaveSettings(settings); err != nil {
		Warn("could not save settings: %v", err)
	}

	if flags.persist {
		target, changed, err := pathenv.PersistAppend(installDir)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "updating PATH", err)
		}
		if changed {
			fmt.Printf("Added %s to PATH via %s. Open a new terminal for it to take effect.\n", installDir, target)
		} else {
			fmt.Printf("%s is already on PATH.\n", installDir)
		}
	}

	return nil
}
