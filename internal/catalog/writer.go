// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/catalogsync/internal/logging"
	"github.com/tomtom215/catalogsync/internal/metrics"
)

// Default record fields.
const (
	DefaultIDField   = "cardSourceID"
	DefaultDateField = "releaseDate"
)

// Skip reasons reported in WriteResult and metrics.
const (
	skipMissingID = "missing_id"
	skipInvalidID = "invalid_id"
)

// WriteResult counts what WritePartition did.
type WriteResult struct {
	Written int
	// Skipped counts records without a usable identifier.
	Skipped int
	// UnparsedDates counts release dates left as-is.
	UnparsedDates int
}

// RecordWriter writes records as <dir>/<partition>/<id>.json.
type RecordWriter struct {
	dir       string
	idField   string
	dateField string
}

// NewRecordWriter returns a writer rooted at dir, the category directory.
// Empty field names select the defaults; dateField "-" disables date
// normalization.
func NewRecordWriter(dir, idField, dateField string) *RecordWriter {
	if idField == "" {
		idField = DefaultIDField
	}
	if dateField == "" {
		dateField = DefaultDateField
	}
	if dateField == "-" {
		dateField = ""
	}
	return &RecordWriter{dir: dir, idField: idField, dateField: dateField}
}

// PartitionDir returns the directory of partition.
func (w *RecordWriter) PartitionDir(partition string) string {
	return filepath.Join(w.dir, partition)
}

// WritePartition normalizes records in place and writes them, overwriting
// existing files.
// The partition directory is created even when records is empty. Each file
// is replaced atomically; any file system error is fatal.
func (w *RecordWriter) WritePartition(ctx context.Context, partition string, records []Record) (WriteResult, error) {
	var res WriteResult
	log := logging.Ctx(ctx).With().Str("component", "writer").Str("partition", partition).Logger()

	dir := w.PartitionDir(partition)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, storageError("create partition directory", err)
	}

	for i := range records {
		rec := &records[i]

		id, ok := rec.String(w.idField)
		if !ok || id == "" {
			log.Warn().Int("index", i).Str("field", w.idField).Msg("Record has no identifier, skipped")
			metrics.RecordsSkipped.WithLabelValues(skipMissingID).Inc()
			res.Skipped++
			continue
		}
		if !validFileName(id) {
			log.Warn().Str("id", id).Msg("Record identifier is not a usable file name, skipped")
			metrics.RecordsSkipped.WithLabelValues(skipInvalidID).Inc()
			res.Skipped++
			continue
		}

		if !w.normalizeDate(rec, id, &log) {
			res.UnparsedDates++
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return res, storageError("encode record "+id, err)
		}
		if err := WriteFileAtomic(filepath.Join(dir, id+".json"), data); err != nil {
			return res, storageError("write record "+id, err)
		}
		res.Written++
	}

	metrics.RecordsWritten.Add(float64(res.Written))
	return res, nil
}

// normalizeDate rewrites the date field in place. It reports false when a
// date was present but could not be parsed; the value is then kept.
func (w *RecordWriter) normalizeDate(rec *Record, id string, log *zerolog.Logger) bool {
	if w.dateField == "" {
		return true
	}
	raw, ok := rec.String(w.dateField)
	if !ok {
		// Absent, null or not a string.
		return true
	}

	normalized, err := NormalizeReleaseDate(raw)
	if err != nil {
		log.Warn().Str("id", id).Str("value", raw).Msg("Release date not normalized")
		metrics.DatesUnparsed.Inc()
		return false
	}
	encoded, _ := json.Marshal(normalized)
	rec.Set(w.dateField, encoded)
	return true
}

// validFileName rejects names that would escape their parent directory.
func validFileName(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`+"\x00")
}
