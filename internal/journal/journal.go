// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogsync/internal/logging"
)

// Key prefixes for BadgerDB storage
const (
	latestKeyPrefix  = "partition:"
	historyKeyPrefix = "history:"
)

// ErrNotFound is returned when a partition has no journal entry.
var ErrNotFound = errors.New("journal entry not found")

// Entry records the outcome of one partition in one run.
type Entry struct {
	Partition   string    `json:"partition"`
	Category    string    `json:"category"`
	RunID       string    `json:"run_id"`
	Mode        string    `json:"mode"`
	Requested   int       `json:"requested"`
	Retrieved   int       `json:"retrieved"`
	Written     int       `json:"written"`
	NewInvalid  int       `json:"new_invalid"`
	Skipped     int       `json:"skipped"`
	Anomaly     string    `json:"anomaly,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// Store is a BadgerDB-backed journal. It keeps the latest entry of every
// partition plus the full history, keyed so that a prefix scan returns one
// partition's runs oldest first.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the journal database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.SyncWrites = true
	// Reduce logging verbosity
	opts.Logger = nil
	return open(opts)
}

// OpenInMemory opens a journal that lives only as long as the Store.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	logging.Debug().Str("path", opts.Dir).Bool("in_memory", opts.InMemory).Msg("Journal opened")
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores e as the latest entry of its partition and adds it to the
// partition history.
func (s *Store) Append(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.Partition == "" {
		return errors.New("journal entry without partition")
	}
	if e.CompletedAt.IsZero() {
		e.CompletedAt = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(latestKey(e.Partition), data); err != nil {
			return fmt.Errorf("set latest entry: %w", err)
		}
		if err := txn.Set(historyKey(e.Partition, e.CompletedAt), data); err != nil {
			return fmt.Errorf("set history entry: %w", err)
		}
		return nil
	})
}

// Latest returns the latest entry of partition.
func (s *Store) Latest(ctx context.Context, partition string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var e Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(latestKey(partition))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get journal entry: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &e)
		})
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LatestAll returns the latest entry of every partition, ordered by partition name.
func (s *Store) LatestAll(ctx context.Context) ([]Entry, error) {
	return s.scan(ctx, []byte(latestKeyPrefix))
}

// History returns up to limit entries of partition, newest first. A limit
// of zero or less returns everything.
func (s *Store) History(ctx context.Context, partition string, limit int) ([]Entry, error) {
	entries, err := s.scan(ctx, []byte(historyKeyPrefix+escapePartition(partition)+":"))
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *Store) scan(ctx context.Context, prefix []byte) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decode journal entry %q: %w", it.Item().Key(), err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}
	return entries, nil
}

func latestKey(partition string) []byte {
	return []byte(latestKeyPrefix + partition)
}

// historyKey sorts by completion time within a partition.
func historyKey(partition string, at time.Time) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", historyKeyPrefix, escapePartition(partition), at.UnixNano()))
}

// escapePartition keeps a history prefix scan from matching a partition
// whose name extends another one with ':'.
func escapePartition(partition string) string {
	return strings.ReplaceAll(partition, ":", "%3A")
}
