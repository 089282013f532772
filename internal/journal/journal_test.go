// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package journal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, mode := range []string{"probed", "bulk"} {
		err := s.Append(ctx, Entry{
			Partition:   "base1",
			RunID:       "run" + string(rune('a'+i)),
			Mode:        mode,
			Requested:   3,
			Retrieved:   3 - i,
			CompletedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	latest, err := s.Latest(ctx, "base1")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.Mode != "bulk" || latest.RunID != "runb" {
		t.Errorf("Latest() = %+v, want the second entry", latest)
	}

	history, err := s.History(ctx, "base1", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 || history[0].RunID != "runb" || history[1].RunID != "runa" {
		t.Errorf("History() = %+v, want newest first", history)
	}

	limited, _ := s.History(ctx, "base1", 1)
	if len(limited) != 1 || limited[0].RunID != "runb" {
		t.Errorf("History(limit 1) = %+v", limited)
	}
}

func TestLatestAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"jungle", "base1", "fossil"} {
		if err := s.Append(ctx, Entry{Partition: p, Mode: "bulk"}); err != nil {
			t.Fatalf("Append(%s) error = %v", p, err)
		}
	}

	all, err := s.LatestAll(ctx)
	if err != nil {
		t.Fatalf("LatestAll() error = %v", err)
	}
	var names []string
	for _, e := range all {
		names = append(names, e.Partition)
		if e.CompletedAt.IsZero() {
			t.Errorf("%s: CompletedAt not defaulted", e.Partition)
		}
	}
	want := []string{"base1", "fossil", "jungle"}
	if len(names) != len(want) {
		t.Fatalf("LatestAll() partitions = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("LatestAll()[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestHistoryDoesNotBleedAcrossPartitions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.Append(ctx, Entry{Partition: "sv1", Mode: "bulk"})
	_ = s.Append(ctx, Entry{Partition: "sv1:promo", Mode: "bulk"})

	h, err := s.History(ctx, "sv1", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(h) != 1 {
		t.Errorf("History(sv1) returned %d entries, want 1", len(h))
	}
}

func TestLatestNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Latest(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestAppendValidation(t *testing.T) {
	s := openTestStore(t)
	if err := s.Append(context.Background(), Entry{}); err == nil {
		t.Error("expected error for entry without partition")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Append(ctx, Entry{Partition: "p"}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Append(context.Background(), Entry{Partition: "base1", Mode: "bulk"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()
	if _, err := s.Latest(context.Background(), "base1"); err != nil {
		t.Errorf("entry lost across reopen: %v", err)
	}
}
