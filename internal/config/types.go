// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// LinkEmbed inlines asset text into rendered pages.
	LinkEmbed LinkMode = "embed"
	// LinkFile links assets as separate files.
	LinkFile LinkMode = "file"
	// LinkRemote links remote assets at their original URI.
	LinkRemote LinkMode = "remote"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidLinkMode is returned when a LinkMode value is not recognized.
	ErrInvalidLinkMode = errors.New("invalid link mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidBundleLevel is returned when the bundle level is negative.
	ErrInvalidBundleLevel = errors.New("invalid bundle level")
	// ErrInvalidFetchTimeout is returned when the fetch timeout is not positive.
	ErrInvalidFetchTimeout = errors.New("invalid fetch timeout")
	// ErrInvalidExportDir is returned when an ExportDirPath value is whitespace-only.
	ErrInvalidExportDir = errors.New("invalid export dir")
	// ErrInvalidServerAddr is returned when a ServerAddr value is whitespace-only.
	ErrInvalidServerAddr = errors.New("invalid server addr")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidExportConfig is the sentinel error wrapped by InvalidExportConfigError.
	ErrInvalidExportConfig = errors.New("invalid export config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LinkMode specifies how composed pages reference assets.
	// Defined locally to avoid coupling config to pkg/asset;
	// the CLI casts to asset.LinkMode at the boundary.
	LinkMode string

	// InvalidLinkModeError is returned when a LinkMode value is not recognized.
	// It wraps ErrInvalidLinkMode for errors.Is() compatibility.
	InvalidLinkModeError struct {
		Value LinkMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ExportDirPath represents a filesystem path exports are written to.
	// The zero value ("") is valid and means "use the default export dir".
	ExportDirPath string

	// InvalidExportDirError is returned when an ExportDirPath value is
	// non-empty but whitespace-only.
	InvalidExportDirError struct {
		Value ExportDirPath
	}

	// ServerAddr represents a listen address for the preview server.
	// The zero value ("") is valid and means "use the default address".
	ServerAddr string

	// InvalidServerAddrError is returned when a ServerAddr value is
	// non-empty but whitespace-only.
	InvalidServerAddrError struct {
		Value ServerAddr
	}

	// InvalidBundleLevelError is returned when the bundle level is negative.
	// It wraps ErrInvalidBundleLevel for errors.Is() compatibility.
	InvalidBundleLevelError struct {
		Value int
	}

	// InvalidFetchTimeoutError is returned when the fetch timeout is not
	// positive. It wraps ErrInvalidFetchTimeout for errors.Is() compatibility.
	InvalidFetchTimeoutError struct {
		Value int
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidExportConfigError is returned when an ExportConfig has invalid fields.
	InvalidExportConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// BundleLevel is the namespace truncation depth for bundle selection.
		// Zero disables truncation.
		BundleLevel int `json:"bundle_level" mapstructure:"bundle_level"`
		// FetchTimeoutSeconds bounds each remote asset fetch.
		FetchTimeoutSeconds int `json:"fetch_timeout_seconds" mapstructure:"fetch_timeout_seconds"`
		// WarnMissingDeps logs unknown dependency names during solves.
		WarnMissingDeps bool `json:"warn_missing_deps" mapstructure:"warn_missing_deps"`
		// LinkMode sets how rendered pages reference assets.
		LinkMode LinkMode `json:"link_mode" mapstructure:"link_mode"`
		// Export configures static export behavior.
		Export ExportConfig `json:"export" mapstructure:"export"`
		// Server configures the preview server.
		Server ServerConfig `json:"server" mapstructure:"server"`
		// UI configures the command-line interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ExportConfig configures static export behavior.
	ExportConfig struct {
		// Dir is the export target directory.
		Dir ExportDirPath `json:"dir" mapstructure:"dir"`
		// Clear removes the target directory before exporting.
		Clear bool `json:"clear" mapstructure:"clear"`
	}

	// ServerConfig configures the preview server.
	ServerConfig struct {
		// Addr is the listen address, e.g. "localhost:8088".
		Addr ServerAddr `json:"addr" mapstructure:"addr"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Error implements the error interface for InvalidLinkModeError.
func (e *InvalidLinkModeError) Error() string {
	return fmt.Sprintf("invalid link mode %q (valid: embed, file, remote)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLinkModeError) Unwrap() error { return ErrInvalidLinkMode }

// String returns the string representation of the LinkMode.
func (m LinkMode) String() string { return string(m) }

// IsValid returns whether the LinkMode is one of the defined modes,
// and a list of validation errors if it is not.
func (m LinkMode) IsValid() (bool, []error) {
	switch m {
	case LinkEmbed, LinkFile, LinkRemote:
		return true, nil
	default:
		return false, []error{&InvalidLinkModeError{Value: m}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// String returns the string representation of the ExportDirPath.
func (p ExportDirPath) String() string { return string(p) }

// IsValid returns whether the ExportDirPath is valid.
// The zero value ("") is valid (means "use the default export dir").
// Non-zero values must not be whitespace-only.
func (p ExportDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidExportDirError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidExportDirError.
func (e *InvalidExportDirError) Error() string {
	return fmt.Sprintf("invalid export dir %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidExportDir for errors.Is() compatibility.
func (e *InvalidExportDirError) Unwrap() error { return ErrInvalidExportDir }

// String returns the string representation of the ServerAddr.
func (a ServerAddr) String() string { return string(a) }

// IsValid returns whether the ServerAddr is valid.
// The zero value ("") is valid (means "use the default address").
// Non-zero values must not be whitespace-only.
func (a ServerAddr) IsValid() (bool, []error) {
	if a == "" {
		return true, nil
	}
	if strings.TrimSpace(string(a)) == "" {
		return false, []error{&InvalidServerAddrError{Value: a}}
	}
	return true, nil
}

// Error implements the error interface for InvalidServerAddrError.
func (e *InvalidServerAddrError) Error() string {
	return fmt.Sprintf("invalid server addr %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidServerAddr for errors.Is() compatibility.
func (e *InvalidServerAddrError) Unwrap() error { return ErrInvalidServerAddr }

// Error implements the error interface for InvalidBundleLevelError.
func (e *InvalidBundleLevelError) Error() string {
	return fmt.Sprintf("invalid bundle level %d: must be >= 0", e.Value)
}

// Unwrap returns ErrInvalidBundleLevel for errors.Is() compatibility.
func (e *InvalidBundleLevelError) Unwrap() error { return ErrInvalidBundleLevel }

// Error implements the error interface for InvalidFetchTimeoutError.
func (e *InvalidFetchTimeoutError) Error() string {
	return fmt.Sprintf("invalid fetch timeout %d: must be > 0 seconds", e.Value)
}

// Unwrap returns ErrInvalidFetchTimeout for errors.Is() compatibility.
func (e *InvalidFetchTimeoutError) Unwrap() error { return ErrInvalidFetchTimeout }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the ExportConfig has valid fields.
// It delegates to Dir.IsValid(); the Clear bool needs no validation.
func (c ExportConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Dir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidExportConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidExportConfigError.
func (e *InvalidExportConfigError) Error() string {
	return fmt.Sprintf("invalid export config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidExportConfig for errors.Is() compatibility.
func (e *InvalidExportConfigError) Unwrap() error { return ErrInvalidExportConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to LinkMode.IsValid(), the numeric knob checks,
// Export.IsValid(), Server.Addr.IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.BundleLevel < 0 {
		errs = append(errs, &InvalidBundleLevelError{Value: c.BundleLevel})
	}
	if c.FetchTimeoutSeconds <= 0 {
		errs = append(errs, &InvalidFetchTimeoutError{Value: c.FetchTimeoutSeconds})
	}
	if valid, fieldErrs := c.LinkMode.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Export.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Server.Addr.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BundleLevel:         2,
		FetchTimeoutSeconds: 5,
		WarnMissingDeps:     true,
		LinkMode:            LinkEmbed,
		Export: ExportConfig{
			Dir:   "", // Will use ./dist if empty
			Clear: false,
		},
		Server: ServerConfig{
			Addr: "", // Will use localhost:8088 if empty
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
