// Package config handles the two configuration layers of vclaunch.
//
// The project manifest (launcher.jsonc / launcher.json) lives next to the
// application source and describes how to launch it: the Python module to
// run, the requirements file, the venv directory, and extra FFmpeg search
// directories. The manifest format supports JSONC (JSON with Comments),
// so this package uses github.com/tidwall/jsonc to strip comments before
// parsing with the standard encoding/json library. Every field is optional;
// a project with no manifest at all launches with the defaults.
//
// The user settings file (config.yaml under the OS config directory) holds
// operator choices that persist across projects — a confirmed FFmpeg
// directory, a preferred Python interpreter — and is parsed with
// gopkg.in/yaml.v3.
package config
