// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/tomtom215/catalogsync/internal/journal"
	"github.com/tomtom215/catalogsync/internal/logging"
	"github.com/tomtom215/catalogsync/internal/metrics"
	"github.com/tomtom215/catalogsync/internal/transport"
)

// InvalidKeyCacheFile is the cache file name inside the category directory.
const InvalidKeyCacheFile = "invalid-card-ids.txt"

// Journal records per-partition outcomes.
type Journal interface {
	Append(ctx context.Context, e journal.Entry) error
}

// Options configures a Syncer.
type Options struct {
	// Dir is the category directory, <output>/<category>.
	Dir      string
	Category string

	// UseInvalidKeyCache loads the cache file at start. The cache is
	// written back either way once it holds any key.
	UseInvalidKeyCache bool

	Query      string
	IDField    string
	DateField  string
	Partitions []string

	// Optional collaborators.
	Pacer    Pacer
	Progress Progress
	Journal  Journal
}

// Summary totals one run.
type Summary struct {
	Partitions int
	Outcomes   map[Outcome]int
	Retrieved  int
	Written    int
	Skipped    int
	NewInvalid int
	// InvalidKeys is the size of the cache at the end of the run.
	InvalidKeys int
}

// Syncer downloads every partition of the catalog in manifest order.
type Syncer struct {
	client   transport.Client
	opts     Options
	fetcher  *Fetcher
	writer   *RecordWriter
	progress Progress
}

// NewSyncer returns a Syncer issuing queries through client.
func NewSyncer(client transport.Client, opts Options) *Syncer {
	if opts.Progress == nil {
		opts.Progress = NopProgress{}
	}
	return &Syncer{
		client:   client,
		opts:     opts,
		fetcher:  NewFetcher(client, opts.Query, opts.Pacer, opts.Progress),
		writer:   NewRecordWriter(opts.Dir, opts.IDField, opts.DateField),
		progress: opts.Progress,
	}
}

// CachePath returns the invalid key cache file path.
func (s *Syncer) CachePath() string {
	return filepath.Join(s.opts.Dir, InvalidKeyCacheFile)
}

// Run fetches and writes every partition. A partition is either written
// completely or not at all; on error the partitions before it stay on disk
// together with the cache flushed after them, so a rerun resumes cleanly.
func (s *Syncer) Run(ctx context.Context) (*Summary, error) {
	log := logging.Ctx(ctx).With().Str("component", "syncer").Str("category", s.opts.Category).Logger()

	manifest, err := LoadManifest(ctx, s.client, s.opts.Partitions)
	if err != nil {
		return nil, err
	}

	invalid, err := LoadInvalidKeys(s.CachePath(), s.opts.UseInvalidKeyCache)
	if err != nil {
		return nil, err
	}
	if invalid.Len() > 0 {
		log.Info().Int("keys", invalid.Len()).Msg("Invalid key cache loaded")
	}

	sum := &Summary{Outcomes: make(map[Outcome]int)}
	s.progress.Start(manifest.TotalKeys())
	defer s.progress.Finish()

	for _, p := range manifest.Partitions {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if len(p.Keys) == 0 {
			log.Debug().Str("partition", p.Name).Msg("Empty compendium, skipped")
			continue
		}
		if err := s.syncPartition(ctx, p, invalid, sum); err != nil {
			return sum, err
		}
	}

	sum.InvalidKeys = invalid.Len()
	log.Info().
		Int("partitions", sum.Partitions).
		Int("written", sum.Written).
		Int("new_invalid", sum.NewInvalid).
		Int("invalid_total", sum.InvalidKeys).
		Msg("Catalog sync complete")
	return sum, nil
}

func (s *Syncer) syncPartition(ctx context.Context, p Partition, invalid *InvalidKeySet, sum *Summary) error {
	log := logging.Ctx(ctx).With().Str("partition", p.Name).Logger()
	s.progress.Describe(p.Name)
	entry := journal.Entry{
		Partition: p.Name,
		Category:  s.opts.Category,
		RunID:     logging.RunIDFromContext(ctx),
	}

	abort := func(err error) error {
		metrics.RecordPartition(metrics.OutcomeAborted, 0, 0)
		entry.Mode = metrics.OutcomeAborted
		entry.Anomaly = err.Error()
		s.record(ctx, entry)
		return err
	}

	res, err := s.fetcher.Fetch(ctx, p, invalid)
	if err != nil {
		return abort(err)
	}
	entry.Requested = res.Requested
	entry.Retrieved = len(res.Records)
	entry.NewInvalid = len(res.NewInvalid)

	written, err := s.writer.WritePartition(ctx, p.Name, res.Records)
	entry.Written = written.Written
	entry.Skipped = written.Skipped
	if err != nil {
		return abort(err)
	}

	// The cache is rewritten after every partition once it holds anything,
	// so an interrupted run keeps what earlier partitions learned.
	if invalid.Len() > 0 {
		if err := invalid.Flush(s.CachePath()); err != nil {
			return abort(err)
		}
	}

	metrics.RecordPartition(string(res.Outcome), len(res.Records), len(res.NewInvalid))

	sum.Partitions++
	sum.Outcomes[res.Outcome]++
	sum.Retrieved += len(res.Records)
	sum.Written += written.Written
	sum.Skipped += written.Skipped
	sum.NewInvalid += len(res.NewInvalid)

	entry.Mode = string(res.Outcome)
	if res.Outcome == OutcomeEmpty {
		entry.Anomaly = "bulk query returned no records"
	}
	s.record(ctx, entry)

	log.Info().
		Str("outcome", string(res.Outcome)).
		Int("requested", res.Requested).
		Int("retrieved", len(res.Records)).
		Int("written", written.Written).
		Int("new_invalid", len(res.NewInvalid)).
		Msg("Partition synced")
	return nil
}

// record appends to the journal. The journal is informational, so a failure
// is logged and the run goes on.
func (s *Syncer) record(ctx context.Context, e journal.Entry) {
	if s.opts.Journal == nil {
		return
	}
	e.CompletedAt = time.Now().UTC()
	if err := s.opts.Journal.Append(ctx, e); err != nil && !errors.Is(err, context.Canceled) {
		logging.Ctx(ctx).Warn().Err(err).Str("partition", e.Partition).Msg("Journal append failed")
	}
}
