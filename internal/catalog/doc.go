// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

/*
Package catalog is the catalog synchronization engine: it downloads every
partition (card set) of the card definition catalog and writes one JSON file
per record.

Key Components:

  - LoadManifest: reads set-manifest_0.0 and every <set>-compendium_0.0,
    keeping compendium key order
  - InvalidKeySet: the negative-result cache, persisted as
    <output>/<category>/invalid-card-ids.txt, one key per line
  - Fetcher: the bulk/probe state machine (see fetcher.go)
  - RecordWriter: release date normalization and atomic per-record writes to
    <output>/<category>/<partition>/<id>.json
  - Syncer: runs all of the above partition by partition

Rejection Handling:

The service answers a bulk query with code 34103 "Invalid cardIDs requested"
when any requested key is unfetchable, without naming it. The Fetcher then
probes each key alone, one per probe delay (350ms by default), and records
every key that repeats the signal in the InvalidKeySet. The cache file is
rewritten after every partition once it is non-empty, and later runs that
load it never request those keys again.

Error Handling:

Any other non-zero code is a *ServiceError (errors.Is ErrUnexpectedService)
and stops the run before the partition is written or the cache flushed.
Local file failures wrap ErrStorage. Both are fatal; nothing is retried.

Release Dates:

NormalizeReleaseDate rewrites the releaseDate field: hour 18 moves back 8
hours, hour 17 moves back 7 hours, other hours are unchanged, and the result
is formatted as 2006-01-02T15:04:05. Values that do not parse are written
unchanged with a warning.
*/
package catalog
