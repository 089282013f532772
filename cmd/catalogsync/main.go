// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

// Package main is the entry point of the catalogsync command.
//
// catalogsync logs in to the identity provider with an authorization code and
// PKCE, opens a session with the query service, and downloads the card
// definition catalog and related documents to a local directory.
//
// # Commands
//
//	catalogsync fetch --card-definitions          # sync every card set
//	catalogsync fetch --card-definitions --partitions sv1,sv2
//	catalogsync fetch --all-documents             # item DB, actions, rules, quests, ...
//	catalogsync status                            # last run of every partition
//	catalogsync status --partition sv1 --limit 5  # history of one partition
//
// # Login
//
// The identity provider redirects to an application URI a browser cannot
// open. catalogsync prints the authorization URL and waits for the redirect
// URL to be pasted back. For scripted runs pass a fresh redirect URL with
// --callback-url or CATALOGSYNC_CALLBACK_URL.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Command line flags
//   - Environment variables (CATALOGSYNC_SERVICE_URL, LOG_LEVEL, ...)
//   - Config file (--config, CONFIG_PATH, catalogsync.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the run. Partitions already written stay on disk
// together with the invalid key cache flushed after them.
//
// # Exit Status
//
// 0 on success, 1 on any error.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/catalogsync/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(newApp())
	if err := root.ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("catalogsync failed")
		stop()
		os.Exit(1)
	}
}
