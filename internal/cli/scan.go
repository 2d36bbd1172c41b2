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
)

// scanFlags holds the flags for the scan command.
type scanFlags struct {
	// move relocates non-HEVC files into the sort folder instead of only
	// reporting them.
	move bool
}

// NewScanCommand creates the scan command: inspect a directory of video
// files with ffprobe and report which ones are not HEVC-encoded.
func NewScanCommand() *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Report video files that are not HEVC/x265 encoded",
		Long: `Scan probes every video file directly inside the given directory with
ffprobe and reports its codec. With --move, files whose video stream is
not HEVC are moved into a "<directory>_notX265" sibling folder so they
can be queued for conversion.

The scan is not recursive and skips non-video files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), flags, args[0])
		},
	}

	cmd.Flags().BoolVar(&flags.move, "move", false, "Move non-HEVC files into the sort folder")

	return cmd
}

// runScan implements the scan workflow.
func runScan(ctx context.Context, flags *scanFlags, dir string) error {
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

	// Scanning is impossible without ffprobe, so unlike launch this is a
	// hard requirement.
	probe, err := ffmpeg.LocateRequired("ffprobe", ffmpegSearchDirs(manifest, settings))
	if err != nil {
		return err
	}
	VerboseLog("using ffprobe at %s", probe.Path)

	results, err := ffmpeg.ScanDir(ctx, probe.Path, dir, flags.move)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "scanning directory", err)
	}

	printScanResults(dir, results, flags.move)
	return nil
}

// printScanResults renders the scan outcome as JSON or text.
func printScanResults(dir string, results []ffmpeg.ScanResult, moved bool) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(data))
		return
	}

	if len(results) == 0 {
		fmt.Printf("No video files found in %s\n", dir)
		return
	}

	nonHEVC := 0
	for _, r := range results {
		switch {
		case r.Err != "":
			fmt.Printf("  %-40s probe failed: %s\n", r.Name, r.Err)
		case r.IsHEVC:
			fmt.Printf("  %-40s %s\n", r.Name, r.Codec)
		case r.Moved:
			fmt.Printf("  %-40s %s -> moved to %s\n", r.Name, r.Codec, ffmpeg.SortFolderName(dir))
			nonHEVC++
		default:
			fmt.Printf("  %-40s %s (not HEVC)\n", r.Name, r.Codec)
			nonHEVC++
		}
	}

	fmt.Printf("\n%d of %d file(s) are not HEVC encoded.\n", nonHEVC, len(results))
	if nonHEVC > 0 && !moved {
		fmt.Println("Run again with --move to collect them for conversion.")
	}
}
