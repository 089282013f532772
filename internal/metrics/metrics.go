// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for PartitionsProcessed.
const (
	OutcomeBulk    = "bulk"
	OutcomeProbed  = "probed"
	OutcomeEmpty   = "empty"
	OutcomeSkipped = "skipped"
	OutcomeAborted = "aborted"
)

var (
	// Partition Metrics
	PartitionsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogsync_partitions_processed_total",
			Help: "Total number of partitions processed, by fetch outcome",
		},
		[]string{"outcome"}, // "bulk", "probed", "empty", "skipped", "aborted"
	)

	KeysRequested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogsync_keys_requested_total",
			Help: "Total number of record keys sent to the query service",
		},
		[]string{"mode"}, // "bulk", "probe"
	)

	RecordsRetrieved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogsync_records_retrieved_total",
			Help: "Total number of records returned by the query service",
		},
	)

	RecordsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogsync_records_written_total",
			Help: "Total number of record files written",
		},
	)

	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogsync_records_skipped_total",
			Help: "Total number of records not written",
		},
		[]string{"reason"}, // "missing_id"
	)

	DatesUnparsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogsync_release_dates_unparsed_total",
			Help: "Total number of release dates left as-is because they could not be parsed",
		},
	)

	// Invalid Key Cache Metrics
	InvalidKeysConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogsync_invalid_keys_confirmed_total",
			Help: "Total number of keys newly confirmed invalid by single-key probes",
		},
	)

	InvalidKeyCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalogsync_invalid_key_cache_entries",
			Help: "Current number of keys in the invalid key cache",
		},
	)

	BulkRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogsync_bulk_rejections_total",
			Help: "Total number of bulk queries rejected with the invalid-keys signal",
		},
	)

	EmptyBulkResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalogsync_empty_bulk_results_total",
			Help: "Total number of successful bulk queries that returned no records for a non-empty request",
		},
	)

	// Transport Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalogsync_query_duration_seconds",
			Help:    "Duration of query service calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"}, // "register", "authenticate", "document", "query:<name>"
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogsync_query_errors_total",
			Help: "Total number of non-zero error codes returned by the query service",
		},
		[]string{"code"},
	)

	// Document Metrics
	DocumentsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogsync_documents_fetched_total",
			Help: "Total number of single-document jobs run",
		},
		[]string{"job", "status"}, // status: "success", "error"
	)

	// Run Metrics
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalogsync_run_duration_seconds",
			Help:    "Duration of a full catalog sync run in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600},
		},
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogsync_run_errors_total",
			Help: "Total number of failed sync runs",
		},
		[]string{"error_type"}, // "auth", "session", "service", "storage", "canceled", "other"
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalogsync_last_success_timestamp",
			Help: "Unix timestamp of last successful sync run",
		},
	)
)

// RecordPartition records the outcome of one partition fetch.
func RecordPartition(outcome string, retrieved, newInvalid int) {
	PartitionsProcessed.WithLabelValues(outcome).Inc()
	RecordsRetrieved.Add(float64(retrieved))
	InvalidKeysConfirmed.Add(float64(newInvalid))
	switch outcome {
	case OutcomeProbed:
		BulkRejections.Inc()
	case OutcomeEmpty:
		EmptyBulkResults.Inc()
	}
}

// RecordKeysRequested counts keys sent in one query.
func RecordKeysRequested(mode string, n int) {
	KeysRequested.WithLabelValues(mode).Add(float64(n))
}

// RecordQuery records a query service call. A zero code means success.
func RecordQuery(operation string, duration time.Duration, code int) {
	QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if code != 0 {
		QueryErrors.WithLabelValues(strconv.Itoa(code)).Inc()
	}
}

// RecordDocument records a single-document job.
func RecordDocument(job string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DocumentsFetched.WithLabelValues(job, status).Inc()
}

// RecordSyncRun records a completed or failed run. errorType is ignored when err is nil.
func RecordSyncRun(duration time.Duration, errorType string, err error) {
	SyncDuration.Observe(duration.Seconds())
	if err != nil {
		if errorType == "" {
			errorType = "other"
		}
		SyncErrors.WithLabelValues(errorType).Inc()
		return
	}
	SyncLastSuccess.Set(float64(time.Now().Unix()))
}

// WriteTextfile writes every registered metric to path in the text exposition
// format, for the node_exporter textfile collector. The parent directory is created.
func WriteTextfile(path string) error {
	return writeTextfile(path, prometheus.DefaultGatherer)
}

func writeTextfile(path string, g prometheus.Gatherer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
