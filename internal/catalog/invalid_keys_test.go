// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadInvalidKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, InvalidKeyCacheFile)
	if err := os.WriteFile(path, []byte("a\r\nb\n\n a \nc"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadInvalidKeys(path, true)
	if err != nil {
		t.Fatalf("LoadInvalidKeys() error = %v", err)
	}
	if !reflect.DeepEqual(s.Keys(), []string{"a", "b", "c"}) {
		t.Errorf("Keys() = %v", s.Keys())
	}

	disabled, err := LoadInvalidKeys(path, false)
	if err != nil || disabled.Len() != 0 {
		t.Errorf("disabled load = %v, %v; want empty set", disabled.Keys(), err)
	}

	missing, err := LoadInvalidKeys(filepath.Join(dir, "absent.txt"), true)
	if err != nil || missing.Len() != 0 {
		t.Errorf("missing file = %v, %v; want empty set", missing.Keys(), err)
	}

	if _, err := LoadInvalidKeys(dir, true); !errors.Is(err, ErrStorage) {
		t.Errorf("reading a directory: error = %v, want ErrStorage", err)
	}
}

func TestInvalidKeySetRecordIsIdempotent(t *testing.T) {
	s := NewInvalidKeySet()
	if !s.Record("k") {
		t.Error("first Record() should report a new key")
	}
	if s.Record("k") {
		t.Error("second Record() should report an existing key")
	}
	if s.Len() != 1 || !s.Contains("k") || s.Contains("other") {
		t.Errorf("set = %v", s.Keys())
	}
}

// The set never shrinks, and what is flushed loads back as a superset.
func TestInvalidKeySetMonotonicAcrossFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", InvalidKeyCacheFile)
	s := NewInvalidKeySet()

	prev := 0
	for _, batch := range [][]string{{"a"}, {"a", "b"}, {"c", "b"}, {}} {
		for _, k := range batch {
			s.Record(k)
		}
		if s.Len() < prev {
			t.Fatalf("set shrank from %d to %d", prev, s.Len())
		}
		prev = s.Len()

		if err := s.Flush(path); err != nil {
			t.Fatalf("Flush() error = %v", err)
		}
		loaded, err := LoadInvalidKeys(path, true)
		if err != nil {
			t.Fatalf("LoadInvalidKeys() error = %v", err)
		}
		for _, k := range s.Keys() {
			if !loaded.Contains(k) {
				t.Errorf("flushed file lacks %s", k)
			}
		}
	}

	data, _ := os.ReadFile(path)
	if string(data) != "a\nb\nc\n" {
		t.Errorf("file = %q, want insertion order", data)
	}

	// No temporary files left behind.
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the cache file", len(entries))
	}
}

func TestFlushFailureIsStorageError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	err := NewInvalidKeySet("a").Flush(filepath.Join(blocker, InvalidKeyCacheFile))
	if !errors.Is(err, ErrStorage) {
		t.Errorf("error = %v, want ErrStorage", err)
	}
}
