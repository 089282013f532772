// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package logging

import (
	"strings"
	"testing"
)

func TestSanitizeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"short", "***"},
		{"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9", "eyJh...VCJ9"},
	}

	for _, tt := range tests {
		if got := SanitizeToken(tt.input); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeValue(t *testing.T) {
	t.Parallel()

	if got := SanitizeValue("ACCESS_TOKEN", "abcdefghijklmnopqrstuvwxyz"); got != "abcd...wxyz" {
		t.Errorf("expected masked access token, got %q", got)
	}
	if got := SanitizeValue("partition", "base1"); got != "base1" {
		t.Errorf("expected non-sensitive value unchanged, got %q", got)
	}
}

func TestSanitizeURL(t *testing.T) {
	t.Parallel()

	raw := "https://app.example/callback?code=abcdefghijklmnopqrstuvwxyz&lang=en"
	got := SanitizeURL(raw)

	if strings.Contains(got, "abcdefghijklmnopqrstuvwxyz") {
		t.Errorf("authorization code leaked: %s", got)
	}
	if !strings.Contains(got, "lang=en") {
		t.Errorf("non-sensitive parameter dropped: %s", got)
	}

	if got := SanitizeURL("https://app.example/callback"); got != "https://app.example/callback" {
		t.Errorf("URL without query should be unchanged, got %s", got)
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 500)
	got := SanitizeError(long)
	if len(got) != 203 {
		t.Errorf("expected truncated error of 203 chars, got %d", len(got))
	}
}
