// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name     string
		callback string
		want     string
		wantErr  error
	}{
		{"custom scheme", "tpcitcgapp://callback?code=abc123&state=xyz", "abc123", nil},
		{"https", "https://tpcitcgapp/callback?state=s&code=c%2Fd", "c/d", nil},
		{"surrounding whitespace", "  app://cb?code=q \n", "q", nil},
		{"fragment ignored", "app://cb?code=q#frag", "q", nil},
		{"second question mark kept in value", "app://cb?code=a?b", "a?b", nil},
		{"no query", "app://cb", "", ErrCallbackNoQuery},
		{"empty", "", "", ErrCallbackNoQuery},
		{"no code", "app://cb?state=s", "", ErrCallbackNoCode},
		{"empty code", "app://cb?code=", "", ErrCallbackNoCode},
		{"provider error", "app://cb?error=access_denied", "", ErrCallbackDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCallback(tt.callback)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("code = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPKCE(t *testing.T) {
	v1 := GeneratePKCECodeVerifier()
	v2 := GeneratePKCECodeVerifier()
	if v1 == v2 {
		t.Error("verifiers must differ between calls")
	}
	if len(v1) != 43 {
		t.Errorf("verifier length = %d, want 43", len(v1))
	}
	if strings.ContainsAny(v1, "+/=") {
		t.Errorf("verifier %q is not base64url without padding", v1)
	}
	// The library helper and the oidc challenge agree.
	if got, want := GeneratePKCECodeChallenge(v1), oauth2.S256ChallengeFromVerifier(v1); got != want {
		t.Errorf("challenge = %q, want %q", got, want)
	}

	// RFC 7636 appendix B test vector.
	got := GeneratePKCECodeChallenge("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk")
	if got != "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM" {
		t.Errorf("challenge = %q", got)
	}
}

func TestPeekIDToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "player-1",
		"iss": "https://idp.example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("not-the-real-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := PeekIDToken(raw)
	if err != nil {
		t.Fatalf("PeekIDToken() error = %v", err)
	}
	if claims.Subject != "player-1" || claims.Issuer != "https://idp.example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
	}

	if _, err := PeekIDToken("not-a-jwt"); !errors.Is(err, ErrInvalidIDToken) {
		t.Errorf("error = %v, want ErrInvalidIDToken", err)
	}
}

func TestPromptCompleter(t *testing.T) {
	var out strings.Builder
	var opened string
	p := NewPromptCompleter(strings.NewReader("app://cb?code=typed\n"), &out, true)
	p.openURL = func(u string) error {
		opened = u
		return nil
	}

	got, err := p.Complete(context.Background(), "https://idp/auth?x=1")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "app://cb?code=typed" {
		t.Errorf("callback = %q", got)
	}
	if opened != "https://idp/auth?x=1" {
		t.Errorf("browser opened %q", opened)
	}
	if !strings.Contains(out.String(), "https://idp/auth?x=1") {
		t.Error("authorization URL not printed")
	}
}

func TestPromptCompleterEmptyInput(t *testing.T) {
	p := NewPromptCompleter(strings.NewReader(""), &strings.Builder{}, false)
	if _, err := p.Complete(context.Background(), "u"); err == nil {
		t.Error("expected error on empty input")
	}
}

func TestStaticCompleter(t *testing.T) {
	got, err := StaticCompleter{CallbackURL: "app://cb?code=1"}.Complete(context.Background(), "ignored")
	if err != nil || got != "app://cb?code=1" {
		t.Errorf("Complete() = %q, %v", got, err)
	}
	if _, err := (StaticCompleter{}).Complete(context.Background(), "u"); err == nil {
		t.Error("expected error without callback URL")
	}
}
