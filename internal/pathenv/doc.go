// Package pathenv inspects and mutates the PATH environment variable
// for the vclaunch CLI.
//
// Two scopes are supported: the current process (session append, used
// so a just-discovered FFmpeg directory is visible to the launched app)
// and the user's permanent environment. Permanent persistence is
// platform-specific — the HKCU\Environment registry value on Windows,
// an export line in the shell profile elsewhere — and only ever happens
// after an explicit user confirmation in the CLI layer.
//
// Every append, in every scope, is guarded by a membership check first:
// confirming the same directory twice never grows PATH.
package pathenv
