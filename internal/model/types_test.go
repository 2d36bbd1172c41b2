package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSetupStatus_String verifies the status values render as their
// plain names in doctor's text output.
func TestSetupStatus_String(t *testing.T) {
	assert.Equal(t, "missing", StatusMissing.String())
	assert.Equal(t, "ready", StatusReady.String())
	assert.Equal(t, "broken", StatusBroken.String())
}

// TestBinaryStatus_String verifies the one-line probe summaries used in
// doctor's text output.
func TestBinaryStatus_String(t *testing.T) {
	tests := []struct {
		name   string
		status BinaryStatus
		want   string
	}{
		{
			name:   "not found",
			status: BinaryStatus{Name: "ffmpeg"},
			want:   "ffmpeg: not found",
		},
		{
			name:   "found without version",
			status: BinaryStatus{Name: "pip", Found: true, Path: "/usr/bin/pip3"},
			want:   "pip: /usr/bin/pip3",
		},
		{
			name: "found with version",
			status: BinaryStatus{
				Name:    "ffmpeg",
				Found:   true,
				Path:    "/usr/bin/ffmpeg",
				Version: "ffmpeg version 6.1.1",
			},
			want: "ffmpeg: /usr/bin/ffmpeg (ffmpeg version 6.1.1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

// TestEnvReport_Finalize verifies the derived AllRequiredPresent flag.
// pip and the requirements manifest are advisory and must not affect it;
// a broken venv must fail the report even when every binary is present.
func TestEnvReport_Finalize(t *testing.T) {
	found := BinaryStatus{Found: true}
	missing := BinaryStatus{}

	tests := []struct {
		name   string
		report EnvReport
		want   bool
	}{
		{
			name: "everything present",
			report: EnvReport{
				Python: found, Pip: found, FFmpeg: found, FFprobe: found,
				Venv: StatusReady, RequirementsFound: true,
			},
			want: true,
		},
		{
			name: "missing venv is still ok (bootstrap will create it)",
			report: EnvReport{
				Python: found, FFmpeg: found, FFprobe: found,
				Venv: StatusMissing,
			},
			want: true,
		},
		{
			name: "pip and manifest missing are advisory",
			report: EnvReport{
				Python: found, Pip: missing, FFmpeg: found, FFprobe: found,
				Venv: StatusReady, RequirementsFound: false,
			},
			want: true,
		},
		{
			name: "no python",
			report: EnvReport{
				Python: missing, FFmpeg: found, FFprobe: found,
				Venv: StatusReady,
			},
			want: false,
		},
		{
			name: "no ffmpeg",
			report: EnvReport{
				Python: found, FFmpeg: missing, FFprobe: found,
				Venv: StatusReady,
			},
			want: false,
		},
		{
			name: "broken venv",
			report: EnvReport{
				Python: found, FFmpeg: found, FFprobe: found,
				Venv: StatusBroken,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.report.Finalize()
			assert.Equal(t, tt.want, tt.report.AllRequiredPresent)
		})
	}
}

// TestCLIError_Error verifies the error message format with and without
// an underlying error.
func TestCLIError_Error(t *testing.T) {
	plain := NewCLIError(ExitFFmpegNotFound, "ffmpeg not found")
	assert.Equal(t, "ffmpeg not found", plain.Error())

	underlying := errors.New("exec: \"ffmpeg\": executable file not found in $PATH")
	wrapped := WrapCLIError(ExitFFmpegNotFound, "ffmpeg not found", underlying)
	assert.Equal(t, fmt.Sprintf("ffmpeg not found: %v", underlying), wrapped.Error())
}

// TestCLIError_Unwrap verifies errors.Is works through the wrapper,
// which the CLI layer relies on for error classification.
func TestCLIError_Unwrap(t *testing.T) {
	underlying := errors.New("permission denied")
	wrapped := WrapCLIError(ExitVenvFailed, "failed to create virtual environment", underlying)

	assert.True(t, errors.Is(wrapped, underlying))

	var cliErr *CLIError
	require.True(t, errors.As(error(wrapped), &cliErr))
	assert.Equal(t, ExitVenvFailed, cliErr.Code)
}

// TestExitCodes verifies the numeric contract: wrapper scripts depend on
// these exact values.
func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, int(ExitSuccess))
	assert.Equal(t, 1, int(ExitGeneralError))
	assert.Equal(t, 2, int(ExitPythonNotFound))
	assert.Equal(t, 3, int(ExitVenvFailed))
	assert.Equal(t, 4, int(ExitInstallFailed))
	assert.Equal(t, 5, int(ExitFFmpegNotFound))
	assert.Equal(t, 6, int(ExitManifestNotFound))
	assert.Equal(t, 7, int(ExitUserCancelled))
}
