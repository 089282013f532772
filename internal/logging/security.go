// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package logging

import (
	"net/url"
	"strings"
)

// sensitiveParams lists query/form parameter names whose values are masked
// before a URL or form body reaches a log line.
var sensitiveParams = map[string]bool{
	"code":          true,
	"code_verifier": true,
	"access_token":  true,
	"refresh_token": true,
	"id_token":      true,
	"token":         true,
	"password":      true,
	"secret":        true,
	"client_secret": true,
	"state":         true,
}

// SanitizeToken masks a token, showing only first and last 4 characters.
// Example: "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..." -> "eyJh...kpXV"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeValue sanitizes a value based on its key name.
func SanitizeValue(key, value string) string {
	if sensitiveParams[strings.ToLower(key)] {
		return SanitizeToken(value)
	}
	return value
}

// SanitizeURL masks sensitive query parameters of a URL.
// Strings that do not parse as URLs are masked entirely.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	q := u.Query()
	if len(q) == 0 {
		return raw
	}
	for key, values := range q {
		for i, v := range values {
			values[i] = SanitizeValue(key, v)
		}
		q[key] = values
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SanitizeError truncates an upstream error body so that large HTML error pages
// do not flood the log.
func SanitizeError(err string) string {
	return truncateString(err, 200)
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
