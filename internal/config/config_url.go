// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// validateEndpointURL validates that a URL is absolute and uses one of the allowed schemes.
// Paths and query strings are allowed: identity endpoints carry both.
func validateEndpointURL(rawURL, fieldName string, schemes ...string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	allowed := false
	for _, s := range schemes {
		if parsedURL.Scheme == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%s scheme must be one of %v, got: %q", fieldName, schemes, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	return nil
}

// validateCallbackURL checks that a pre-supplied callback carries a query string.
// The login flow parses everything after the first '?', so a callback without one
// can never complete.
func validateCallbackURL(rawURL string) error {
	if _, err := url.Parse(rawURL); err != nil {
		return fmt.Errorf("callback URL failed to parse: %w", err)
	}
	if !strings.Contains(rawURL, "?") {
		return fmt.Errorf("callback URL has no query string")
	}
	return nil
}
