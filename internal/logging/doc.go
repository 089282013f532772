// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

// Package logging provides centralized zerolog-based structured logging for catalogsync.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Str("partition", "base1").Int("records", 102).Msg("Partition written")
//	logging.Error().Err(err).Msg("Sync aborted")
//
//	// Run-scoped logging
//	ctx = logging.ContextWithRunID(ctx, logging.GenerateRunID())
//	logging.Ctx(ctx).Info().Msg("Starting catalog sync")
//
// # Configuration
//
// Environment Variables (mapped by internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// The --quiet flag of the CLI raises the level to warn.
//
// # Secrets
//
// Tokens, authorization codes and PKCE verifiers must never be logged verbatim.
// Use SanitizeToken for single values and SanitizeURL for callback or
// authorization URLs:
//
//	logging.Debug().Str("callback", logging.SanitizeURL(callbackURL)).Msg("Callback received")
//
// # Output Formats
//
// JSON Format:
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","run_id":"1f2e3d4c","message":"Partition written"}
//
// Console Format:
//
//	10:30:00 INF Partition written run_id=1f2e3d4c
package logging
