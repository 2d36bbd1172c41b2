package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Default values applied to manifest fields that are left empty.
// They mirror the layout of the original launcher scripts: a requirements
// file and the application package at the project root, and a venv
// directory alongside them.
const (
	// DefaultAppModule is the Python module started as the application
	// entry point (python -m <module>).
	DefaultAppModule = "src.main"

	// DefaultRequirements is the dependency manifest consumed by pip.
	DefaultRequirements = "requirements.txt"

	// DefaultVenvDir is the virtual environment directory, relative to
	// the project root.
	DefaultVenvDir = ".venv"

	// DefaultMinPythonVersion is the lowest interpreter version accepted
	// when probing for Python.
	DefaultMinPythonVersion = "3.7"
)

// Manifest represents the parsed launcher.jsonc project manifest.
// Fields not present in the file keep their zero value and are filled in
// by ApplyDefaults. Unknown fields in the file are silently ignored,
// which lets projects carry extra tooling config in the same file.
type Manifest struct {
	// AppModule is the Python module launched in the foreground
	// (python -m <AppModule>). Defaults to "src.main".
	AppModule string `json:"appModule,omitempty"`

	// Requirements is the pip requirements file, relative to the project
	// root. Defaults to "requirements.txt".
	Requirements string `json:"requirements,omitempty"`

	// VenvDir is the virtual environment directory, relative to the
	// project root. Defaults to ".venv".
	VenvDir string `json:"venvDir,omitempty"`

	// PythonVersion is the minimum acceptable interpreter version in
	// "major.minor" form. Defaults to "3.7".
	PythonVersion string `json:"pythonVersion,omitempty"`

	// Env holds extra environment variables set for the application
	// process. PYTHONPATH is managed by the launcher and cannot be
	// overridden here.
	Env map[string]string `json:"env,omitempty"`

	// FFmpegDirs lists additional directories to probe during FFmpeg
	// discovery, checked after PATH but before the built-in per-OS
	// candidates.
	FFmpegDirs []string `json:"ffmpegDirs,omitempty"`
}

// ApplyDefaults fills empty manifest fields with their default values.
// Called by LoadManifest, and usable directly on a zero Manifest when no
// manifest file exists.
func (m *Manifest) ApplyDefaults() {
	if m.AppModule == "" {
		m.AppModule = DefaultAppModule
	}
	if m.Requirements == "" {
		m.Requirements = DefaultRequirements
	}
	if m.VenvDir == "" {
		m.VenvDir = DefaultVenvDir
	}
	if m.PythonVersion == "" {
		m.PythonVersion = DefaultMinPythonVersion
	}
}

// RequirementsPath returns the absolute path of the requirements manifest
// for a project rooted at projectDir.
func (m *Manifest) RequirementsPath(projectDir string) string {
	if filepath.IsAbs(m.Requirements) {
		return m.Requirements
	}
	return filepath.Join(projectDir, m.Requirements)
}

// VenvPath returns the absolute path of the virtual environment directory
// for a project rooted at projectDir.
func (m *Manifest) VenvPath(projectDir string) string {
	if filepath.IsAbs(m.VenvDir) {
		return m.VenvDir
	}
	return filepath.Join(projectDir, m.VenvDir)
}

// LoadManifest reads a launcher manifest file, strips JSONC comments, and
// parses it into a Manifest with defaults applied.
//
// The manifest format officially allows comments and trailing commas, so
// the raw bytes go through jsonc.ToJSON before encoding/json sees them.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read launcher manifest: %w", err)
	}

	cleanJSON := jsonc.ToJSON(data)

	var m Manifest
	if err := json.Unmarshal(cleanJSON, &m); err != nil {
		return nil, fmt.Errorf("failed to parse launcher manifest at %s: %w", path, err)
	}

	m.ApplyDefaults()
	return &m, nil
}

// FindManifest searches for a launcher manifest in the standard locations
// within a project directory.
//
// The search order:
//  1. <projectDir>/.vclaunch/launcher.jsonc
//  2. <projectDir>/launcher.jsonc
//  3. <projectDir>/launcher.json
//
// Returns the path of the first file found, or an empty string when the
// project has no manifest. A missing manifest is not an error — the
// launcher runs with defaults, exactly like the original scripts did.
func FindManifest(projectDir string) string {
	candidates := []string{
		filepath.Join(projectDir, ".vclaunch", "launcher.jsonc"),
		filepath.Join(projectDir, "launcher.jsonc"),
		filepath.Join(projectDir, "launcher.json"),
	}

	for _, path := range candidates {
		// os.Stat checks existence without reading contents.
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// LoadProjectManifest combines FindManifest and LoadManifest: it returns
// the project's manifest, or a defaults-only Manifest when the project
// has none.
func LoadProjectManifest(projectDir string) (*Manifest, error) {
	path := FindManifest(projectDir)
	if path == "" {
		m := &Manifest{}
		m.ApplyDefaults()
		return m, nil
	}
	return LoadManifest(path)
}
