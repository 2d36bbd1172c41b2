// Package python provides Python interpreter discovery, virtual
// environment bootstrap, dependency sync, and application launch for
// the vclaunch CLI.
//
// All Python operations are performed via os/exec calls to the python
// binary, rather than embedding an interpreter. This approach:
//   - Uses the exact same Python the user sees in their terminal
//   - Keeps the launcher a single static binary with no CGO
//   - Requires Python >= 3.7 (when venv and -m module launch matured)
//
// The Runner struct provides methods for creating the venv, installing
// requirements with pip, and running the application module in the
// foreground with the child's exit code surfaced to the caller.
package python
