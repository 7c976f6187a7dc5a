// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		err := FormatError(nil, "test.cue")
		if err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("some error")
		err := FormatError(originalErr, "test.cue")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "test.cue") {
			t.Errorf("error should contain filepath, got: %v", err)
		}
		if !strings.Contains(err.Error(), "some error") {
			t.Errorf("error should contain original message, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{
			name:     "empty path",
			path:     []string{},
			expected: "",
		},
		{
			name:     "single element",
			path:     []string{"app"},
			expected: "app",
		},
		{
			name:     "nested path",
			path:     []string{"export", "dir"},
			expected: "export.dir",
		},
		{
			name:     "array index",
			path:     []string{"components", "0", "script"},
			expected: "components[0].script",
		},
		{
			name:     "multiple array indices",
			path:     []string{"components", "0", "deps", "2"},
			expected: "components[0].deps[2]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := formatPath(tt.path)
			if result != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	t.Run("data within limit returns nil", func(t *testing.T) {
		t.Parallel()

		if err := CheckFileSize([]byte("hello world"), 100, "test.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("data at exact limit returns nil", func(t *testing.T) {
		t.Parallel()

		if err := CheckFileSize(make([]byte, 100), 100, "test.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("data exceeding limit returns error", func(t *testing.T) {
		t.Parallel()

		err := CheckFileSize(make([]byte, 101), 100, "test.cue")
		if err == nil {
			t.Fatal("expected error")
		}
		for _, want := range []string{"test.cue", "101", "100"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error should contain %q, got: %v", want, err)
			}
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	t.Run("Error with path", func(t *testing.T) {
		t.Parallel()

		err := &ValidationError{
			FilePath: "manifest.cue",
			CUEPath:  "components[0].namespace",
			Message:  "expected string, got int",
		}
		expected := "manifest.cue: components[0].namespace: expected string, got int"
		if err.Error() != expected {
			t.Errorf("got %q, want %q", err.Error(), expected)
		}
	})

	t.Run("Error without path", func(t *testing.T) {
		t.Parallel()

		err := &ValidationError{
			FilePath: "manifest.cue",
			Message:  "syntax error",
		}
		expected := "manifest.cue: syntax error"
		if err.Error() != expected {
			t.Errorf("got %q, want %q", err.Error(), expected)
		}
	})

	t.Run("Unwrap returns nil", func(t *testing.T) {
		t.Parallel()

		err := &ValidationError{FilePath: "manifest.cue", Message: "some error"}
		if err.Unwrap() != nil {
			t.Error("Unwrap should return nil")
		}
	})
}
