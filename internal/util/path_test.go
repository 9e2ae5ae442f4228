// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain name", "poster.png", "poster.png", false},
		{"with spaces", "my poster.jpg", "my poster.jpg", false},
		{"unix traversal", "../../../etc/passwd", "passwd", false},
		{"windows traversal", "..\\..\\windows\\system32\\cmd.exe", "cmd.exe", false},
		{"absolute path", "/etc/shadow", "shadow", false},
		{"empty", "", "", true},
		{"dot", ".", "", true},
		{"dotdot", "..", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SanitizeFilename(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizeFilename(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidatePathWithinBase(t *testing.T) {
	base := t.TempDir()

	if err := ValidatePathWithinBase(base, filepath.Join(base, "uploads", "a.png")); err != nil {
		t.Errorf("expected path within base to validate, got: %v", err)
	}
	if err := ValidatePathWithinBase(base, base); err != nil {
		t.Errorf("expected base itself to validate, got: %v", err)
	}
	if err := ValidatePathWithinBase(base, filepath.Join(base, "..", "escape.png")); err == nil {
		t.Error("expected traversal outside base to fail")
	}
	// Sibling directory sharing the base as a name prefix must not pass.
	if err := ValidatePathWithinBase(base, base+"-evil/a.png"); err == nil {
		t.Error("expected prefix-sibling directory to fail")
	}
}

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	got, err := SafeJoinPath(base, "uploads", "a.png")
	if err != nil {
		t.Fatalf("SafeJoinPath: %v", err)
	}
	want := filepath.Join(base, "uploads", "a.png")
	if got != want {
		t.Errorf("SafeJoinPath = %q, want %q", got, want)
	}

	if _, err := SafeJoinPath(base, "..", "escape.png"); err == nil {
		t.Error("expected traversal join to fail")
	}
}
