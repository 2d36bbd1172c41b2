//go:build windows

package pathenv

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// PersistAppend permanently adds dir to the user's PATH via the
// HKCU\Environment registry value — the per-user environment Windows
// reads at logon, and the same mechanism the original installer used
// through winreg. No administrator rights are needed for HKCU.
//
// Returns the location that was (or would have been) modified and
// whether a change was actually written. The append is skipped when the
// registry PATH already contains dir, so repeated confirmations never
// duplicate the entry.
//
// After a successful write, a WM_SETTINGCHANGE broadcast nudges running
// shells to reload the environment; already-open terminals may still
// need a restart.
func PersistAppend(dir string) (string, bool, error) {
	const location = `HKCU\Environment\Path`

	key, err := registry.OpenKey(registry.CURRENT_USER, "Environment", registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return location, false, fmt.Errorf("failed to open HKCU\\Environment: %w", err)
	}
	defer func() { _ = key.Close() }()

	// The value may be absent on a fresh profile; treat that as empty.
	current, valueType, err := key.GetStringValue("Path")
	if err != nil && err != registry.ErrNotExist {
		return location, false, fmt.Errorf("failed to read user Path: %w", err)
	}

	if Contains(current, dir) {
		return location, false, nil
	}

	updated := dir
	if current != "" {
		updated = current + ";" + dir
	}

	// Preserve REG_EXPAND_SZ when the existing value uses it, so
	// entries like %SystemRoot% keep expanding.
	if valueType == registry.EXPAND_SZ {
		err = key.SetExpandStringValue("Path", updated)
	} else {
		err = key.SetStringValue("Path", updated)
	}
	if err != nil {
		return location, false, fmt.Errorf("failed to write user Path: %w", err)
	}

	broadcastEnvironmentChange()
	return location, true, nil
}

// broadcastEnvironmentChange sends WM_SETTINGCHANGE("Environment") to
// all top-level windows. Failure is ignored: the registry write already
// succeeded and new processes will pick it up regardless.
func broadcastEnvironmentChange() {
	const (
		hwndBroadcast   = 0xFFFF
		wmSettingChange = 0x001A
		smtoAbortIfHung = 0x0002
	)

	env, err := windows.UTF16PtrFromString("Environment")
	if err != nil {
		return
	}

	user32 := windows.NewLazySystemDLL("user32.dll")
	proc := user32.NewProc("SendMessageTimeoutW")
	_, _, _ = proc.Call(
		uintptr(hwndBroadcast),
		uintptr(wmSettingChange),
		0,
		uintptr(unsafe.Pointer(env)),
		uintptr(smtoAbortIfHung),
		5000, // ms
		0,
	)
}
