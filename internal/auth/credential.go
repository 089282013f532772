// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package auth

import (
	"errors"
	"time"
)

// ErrAuthenticationFailure wraps every failure of the login flow: callback
// parsing, identity provider errors and transport errors alike. It is fatal
// to the run and never retried.
var ErrAuthenticationFailure = errors.New("authentication failed")

// Credential is the result of a successful login. It lives for one run and
// is never persisted.
type Credential struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
}

// ClientDescriptor describes the OAuth2 public client performing the login.
type ClientDescriptor struct {
	AuthorizeURL string
	TokenURL     string
	ClientID     string
	RedirectURI  string
	Scopes       []string

	// Audience and Locale are added to the authorization URL as the
	// audience and ui_locales parameters when non-empty.
	Audience string
	Locale   string

	// UserAgent is sent on the token exchange.
	UserAgent string
}
