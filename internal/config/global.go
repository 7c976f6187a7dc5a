// SPDX-License-Identifier: MPL-2.0

package config

// dirOverride short-circuits ConfigDir resolution. Tests point it at a temp
// dir because os.UserHomeDir does not follow the HOME env var on every
// platform (macOS in CI being the usual offender).
var dirOverride string

// OverrideDir pins ConfigDir to dir until ResetOverrides is called.
func OverrideDir(dir string) {
	dirOverride = dir
}

// ResetOverrides restores default config directory resolution. Call it from
// test cleanup.
func ResetOverrides() {
	dirOverride = ""
}
