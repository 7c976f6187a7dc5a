// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError carries the context the CLI needs to tell the user
	// what failed and what to do about it. Operation is a verb phrase like
	// "load manifest" or "export app"; Resource names the manifest path,
	// export directory or listen address involved. Build one through
	// ErrorContext:
	//
	//	return issue.NewErrorContext().
	//		WithOperation("load manifest").
	//		WithResource(path).
	//		WithSuggestion("Run 'assetforge init' to create a starter manifest").
	//		Wrap(err).
	//		BuildError()
	ActionableError struct {
		Operation string
		Resource  string

		// Suggestions are shown as hints below the error message.
		Suggestions []string

		// Cause is the wrapped engine error. It stays reachable through
		// errors.As, so Classify still sees cycle, fetch and export errors
		// wrapped at the command layer.
		Cause error
	}

	// ErrorContext accumulates the pieces of an ActionableError.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext starts an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders the one-line form:
//
//	failed to <operation>[: <resource>][: <cause>]
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// HasSuggestions reports whether any hints were attached.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// Format renders the multi-line CLI form: the one-line message, then the
// suggestions as bulleted hints. Verbose mode appends the wrapped errors
// outermost first, which places the engine failure that started it all on
// the last line.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		b.WriteString("\n")
		for _, hint := range e.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(hint)
		}
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nCaused by:")
		depth := 1
		for cause := e.Cause; cause != nil; cause = errors.Unwrap(cause) {
			fmt.Fprintf(&b, "\n  %d. %s", depth, cause.Error())
			depth++
		}
	}

	return b.String()
}

// WithOperation sets the failing operation, a verb phrase like
// "discover bundles". An ErrorContext without one builds to nil.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource names the manifest, directory or address involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends a hint. Call it once per hint.
func (c *ErrorContext) WithSuggestion(hint string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, hint)
	return c
}

// Wrap records the underlying error as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns the accumulated error, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	return &ae
}

// BuildError is Build for use in return statements. A nil *ActionableError
// must not escape into a non-nil error interface, so it converts explicitly.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
