// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

// Package session turns an identity provider credential into an authenticated
// query service session: register a per-run device identity, then
// authenticate with the access token (token type PJWT).
package session
