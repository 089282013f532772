// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

/*
Package metrics provides Prometheus instrumentation for catalog sync runs.

All metrics are registered with the default registry through promauto. A sync
run is a short-lived process, so instead of an HTTP endpoint the registry is
written once at the end of the run to metrics.textfile_path, in the format read
by the node_exporter textfile collector:

	if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
	    logging.Warn().Err(err).Msg("Failed to write metrics textfile")
	}

# Metric Families

Partitions:
  - catalogsync_partitions_processed_total{outcome}
  - catalogsync_keys_requested_total{mode}
  - catalogsync_records_retrieved_total
  - catalogsync_records_written_total
  - catalogsync_records_skipped_total{reason}
  - catalogsync_release_dates_unparsed_total

Invalid key cache:
  - catalogsync_invalid_keys_confirmed_total
  - catalogsync_invalid_key_cache_entries
  - catalogsync_bulk_rejections_total
  - catalogsync_empty_bulk_results_total

Transport:
  - catalogsync_query_duration_seconds{operation}
  - catalogsync_query_errors_total{code}

Runs and documents:
  - catalogsync_run_duration_seconds
  - catalogsync_run_errors_total{error_type}
  - catalogsync_last_success_timestamp
  - catalogsync_documents_fetched_total{job,status}
*/
package metrics
