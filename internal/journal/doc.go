// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

/*
Package journal keeps a durable per-partition history of catalog runs in
BadgerDB, stored under the output directory (.catalogsync-journal).

Every processed partition appends one Entry: the mode it finished in (bulk,
probed, empty, skipped), how many keys were requested and retrieved, how
many new invalid keys were confirmed, and any anomaly. The status command
reads the latest entry of each partition.

Key layout:

	partition:<name>                 latest entry
	history:<name>:<unix-nanos>      every entry, oldest first

The journal is informational. Resuming a run never depends on it; the
per-partition files and the invalid-key cache already make runs resumable.
*/
package journal
