// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidIDToken indicates the ID token is not a parseable JWT.
var ErrInvalidIDToken = errors.New("invalid ID token")

// IDTokenClaims holds the few ID token claims logged for diagnostics.
type IDTokenClaims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// PeekIDToken reads claims from raw WITHOUT verifying its signature. The
// result is for log output only and must never drive an authorization
// decision; the service validates the token itself.
func PeekIDToken(raw string) (*IDTokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIDToken, err)
	}

	out := &IDTokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if iss, err := claims.GetIssuer(); err == nil {
		out.Issuer = iss
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
