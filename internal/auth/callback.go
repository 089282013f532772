// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Callback parsing errors. Each is returned wrapped in ErrAuthenticationFailure.
var (
	// ErrCallbackNoQuery indicates the redirect URL has no '?'.
	ErrCallbackNoQuery = errors.New("callback URL has no query string")

	// ErrCallbackNoCode indicates the query string carries no code parameter.
	ErrCallbackNoCode = errors.New("callback URL has no authorization code")

	// ErrCallbackDenied indicates the identity provider redirected with an error parameter.
	ErrCallbackDenied = errors.New("authorization denied by identity provider")
)

// ParseCallback extracts the authorization code from the redirect URL the
// operator copied out of the browser. Everything after the first '?' is parsed
// as query parameters; the scheme and host are not inspected because the
// redirect target (a custom app URI) is never actually loaded.
func ParseCallback(callbackURL string) (string, error) {
	callbackURL = strings.TrimSpace(callbackURL)

	idx := strings.IndexByte(callbackURL, '?')
	if idx < 0 {
		return "", ErrCallbackNoQuery
	}

	query := callbackURL[idx+1:]
	// A fragment is never part of the query.
	if hash := strings.IndexByte(query, '#'); hash >= 0 {
		query = query[:hash]
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return "", fmt.Errorf("parse callback query: %w", err)
	}

	if e := values.Get("error"); e != "" {
		if desc := values.Get("error_description"); desc != "" {
			return "", fmt.Errorf("%w: %s: %s", ErrCallbackDenied, e, desc)
		}
		return "", fmt.Errorf("%w: %s", ErrCallbackDenied, e)
	}

	code := values.Get("code")
	if code == "" {
		return "", ErrCallbackNoCode
	}
	return code, nil
}
