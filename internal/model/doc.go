// Package model defines the domain types and value objects for the
// vclaunch CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (BinaryStatus, EnvReport, SetupStatus, etc.) are transient
// representations probed from the host at runtime — vclaunch keeps no
// persistent state of its own beyond the user settings file managed by
// internal/config.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
