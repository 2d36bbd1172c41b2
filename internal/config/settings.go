package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// settingsFileName is the user settings file stored under the OS config
// directory (e.g. ~/.config/vclaunch/config.yaml on Linux,
// %AppData%\vclaunch\config.yaml on Windows).
const settingsFileName = "config.yaml"

// Settings holds per-user operator choices that persist across projects.
// Unlike the project manifest, this file is written by vclaunch itself —
// for example after the user confirms a permanent FFmpeg PATH entry.
type Settings struct {
	// FFmpegDir is a directory containing the ffmpeg binaries that the
	// user previously confirmed. Discovery checks it right after PATH.
	FFmpegDir string `yaml:"ffmpegDir,omitempty"`

	// Python overrides interpreter discovery with an explicit executable
	// path or name.
	Python string `yaml:"python,omitempty"`

	// AlwaysSkipDeps disables the per-launch dependency sync, for users
	// who manage the venv themselves.
	AlwaysSkipDeps bool `yaml:"alwaysSkipDeps,omitempty"`
}

// SettingsPath returns the absolute path of the user settings file.
// The parent directory may not exist yet; SaveSettings creates it.
func SettingsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	return filepath.Join(configDir, "vclaunch", settingsFileName), nil
}

// LoadSettings reads the user settings file. A missing file is not an
// error — it simply returns zero-valued Settings, which is the state of
// a fresh installation.
func LoadSettings() (*Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return nil, err
	}
	return loadSettingsFile(path)
}

// loadSettingsFile parses a settings YAML file at an explicit path.
// Split out from LoadSettings so tests can exercise parsing without
// touching the real user config directory.
func loadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings at %s: %w", path, err)
	}
	return &s, nil
}

// SaveSettings writes the user settings file, creating the config
// directory if needed. The file is world-readable config, not a secret,
// so standard permissions apply.
func SaveSettings(s *Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	return saveSettingsFile(s, path)
}

// saveSettingsFile writes settings YAML to an explicit path.
func saveSettingsFile(s *Settings, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
