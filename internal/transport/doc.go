// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

// Package transport is the request/response client for the catalog query service.
//
// Two wires implement the same primitives (register, authenticate, fetch
// documents, run a named query) and are selected by the service URL scheme:
//
//   - http, https: one JSON POST per operation (see httpWire)
//   - ws, wss: JSON text frames over a single connection (see webSocketWire)
//
// Both are JSON renditions owned by this project; they make no claim about any
// other service's protocol.
//
// Every answer is a Response envelope {error, message, result}. A result that
// arrives as a JSON string holding JSON text is decoded once so that callers
// always see structured JSON.
//
// Calls are synchronous. Each wire serializes access with a mutex, so sharing a
// Client between goroutines is safe but gains nothing.
package transport
