// Package model defines the domain types for the vclaunch CLI.
//
// The launcher's "data model" is deliberately small: the only state it
// inspects is the process environment, the filesystem existence of a
// virtual environment, and the reachability of external binaries. These
// types capture the results of those probes so the CLI layer can render
// them as text or JSON.
package model

import (
	"fmt"
)

// SetupStatus represents the state of the project's Python virtual
// environment. The transitions are:
//
//	missing → (python -m venv) → ready
//	ready → broken (venv directory survives but its interpreter is gone,
//	                e.g. after a system Python upgrade or partial delete)
type SetupStatus string

const (
	// StatusMissing indicates no virtual environment directory exists.
	// Bootstrap will create one.
	StatusMissing SetupStatus = "missing"

	// StatusReady indicates the virtual environment exists and its
	// interpreter is executable. Bootstrap never recreates it.
	StatusReady SetupStatus = "ready"

	// StatusBroken indicates the venv directory exists but the interpreter
	// inside it is missing or unusable. vclaunch reports this instead of
	// silently recreating, because the directory may hold user data.
	StatusBroken SetupStatus = "broken"
)

// String returns the string representation of SetupStatus.
// Satisfies fmt.Stringer for human-readable CLI output.
func (s SetupStatus) String() string {
	return string(s)
}

// BinaryStatus holds the result of probing a single external executable
// (python, pip, ffmpeg, ffprobe). Probing is presence + optional version;
// no capability detection is performed beyond that.
type BinaryStatus struct {
	// Name is the executable's base name (e.g. "ffmpeg").
	Name string `json:"name"`

	// Found reports whether the executable was located anywhere searched.
	Found bool `json:"found"`

	// Path is the absolute path to the executable. Empty when not found.
	Path string `json:"path,omitempty"`

	// Version is the first line of the tool's --version/-version output.
	// Empty when the tool was found but the version probe failed — a
	// found-but-unversioned binary still counts as present.
	Version string `json:"version,omitempty"`

	// OnPath reports whether Path was resolved through the PATH variable,
	// as opposed to one of the conventional fallback directories. PATH
	// resolution always wins when both exist.
	OnPath bool `json:"onPath"`
}

// String returns a one-line human-readable summary of the probe result.
func (b BinaryStatus) String() string {
	if !b.Found {
		return fmt.Sprintf("%s: not found", b.Name)
	}
	if b.Version != "" {
		return fmt.Sprintf("%s: %s (%s)", b.Name, b.Path, b.Version)
	}
	return fmt.Sprintf("%s: %s", b.Name, b.Path)
}

// EnvReport is the aggregate output of the doctor command: one probe
// result per external dependency, plus the state of the project-local
// pieces (venv, requirements manifest).
type EnvReport struct {
	// Python is the interpreter that would be used to create the venv.
	Python BinaryStatus `json:"python"`

	// Pip is the pip module inside the venv (or the system pip when the
	// venv does not exist yet).
	Pip BinaryStatus `json:"pip"`

	// FFmpeg is the external media encoder the application shells out to.
	FFmpeg BinaryStatus `json:"ffmpeg"`

	// FFprobe is the companion stream-inspection tool.
	FFprobe BinaryStatus `json:"ffprobe"`

	// Venv is the state of the project's virtual environment.
	Venv SetupStatus `json:"venv"`

	// VenvPath is the absolute path of the venv directory (whether or not
	// it exists yet).
	VenvPath string `json:"venvPath"`

	// RequirementsFound reports whether the dependency manifest exists.
	// A missing manifest is a warning, not an error: the launch sequence
	// proceeds regardless, matching the original launcher behavior.
	RequirementsFound bool `json:"requirementsFound"`

	// RequirementsPath is the resolved manifest path.
	RequirementsPath string `json:"requirementsPath"`

	// AllRequiredPresent is true when python, ffmpeg, and ffprobe are all
	// found and the venv is not broken. pip and the manifest are advisory.
	AllRequiredPresent bool `json:"allRequiredPresent"`
}

// Finalize computes the derived AllRequiredPresent field from the
// individual probe results. Call after all probes have been filled in.
func (r *EnvReport) Finalize() {
	r.AllRequiredPresent = r.Python.Found &&
		r.FFmpeg.Found &&
		r.FFprobe.Found &&
		r.Venv != StatusBroken
}

// ExitCode defines the CLI exit codes. These codes allow wrapper scripts
// and CI systems to programmatically determine the outcome of a command.
//
// The launch command is special: when the application itself exits
// non-zero, that exit code is propagated verbatim rather than being
// mapped onto one of these constants.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitPythonNotFound indicates no usable Python interpreter was
	// located on the host.
	ExitPythonNotFound ExitCode = 2

	// ExitVenvFailed indicates virtual environment creation failed, or
	// an existing venv is broken.
	ExitVenvFailed ExitCode = 3

	// ExitInstallFailed indicates the dependency install step failed in a
	// context where it is fatal (the setup command). During launch the
	// same failure only produces a warning.
	ExitInstallFailed ExitCode = 4

	// ExitFFmpegNotFound indicates the FFmpeg binary was not found on
	// PATH or in any of the conventional install directories.
	ExitFFmpegNotFound ExitCode = 5

	// ExitManifestNotFound indicates the requirements manifest the command
	// requires does not exist.
	ExitManifestNotFound ExitCode = 6

	// ExitUserCancelled indicates the user declined an interactive prompt.
	ExitUserCancelled ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
