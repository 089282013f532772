// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package auth

import (
	"github.com/zitadel/oidc/v3/pkg/oidc"
	"golang.org/x/oauth2"
)

// GeneratePKCECodeVerifier returns a fresh 43 character code verifier
// (32 random bytes, base64url).
func GeneratePKCECodeVerifier() string {
	return oauth2.GenerateVerifier()
}

// GeneratePKCECodeChallenge derives the S256 code challenge of a verifier.
func GeneratePKCECodeChallenge(verifier string) string {
	return oidc.NewSHACodeChallenge(verifier)
}

// pkceMethod is the only challenge method this client sends.
const pkceMethod = string(oidc.CodeChallengeMethodS256)
