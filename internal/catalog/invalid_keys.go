// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/tomtom215/catalogsync/internal/metrics"
)

// InvalidKeySet is the negative-result cache: keys the service confirmed as
// unfetchable. It only grows. Keys keep insertion order so the cache file
// reads in discovery order.
type InvalidKeySet struct {
	keys  []string
	index map[string]struct{}
}

// NewInvalidKeySet returns a set holding keys.
func NewInvalidKeySet(keys ...string) *InvalidKeySet {
	s := &InvalidKeySet{index: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		s.Record(k)
	}
	return s
}

// LoadInvalidKeys reads the cache file at path, one key per line. A missing
// file, or enabled being false, yields an empty set. Blank lines are ignored.
func LoadInvalidKeys(path string, enabled bool) (*InvalidKeySet, error) {
	s := NewInvalidKeySet()
	if !enabled {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, storageError("read invalid key cache", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if key := strings.TrimSpace(line); key != "" {
			s.Record(key)
		}
	}
	metrics.InvalidKeyCacheSize.Set(float64(s.Len()))
	return s, nil
}

// Contains reports whether key is known to be invalid.
func (s *InvalidKeySet) Contains(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Record adds key and reports whether it was new.
func (s *InvalidKeySet) Record(key string) bool {
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.keys = append(s.keys, key)
	return true
}

// Len returns the number of keys.
func (s *InvalidKeySet) Len() int {
	return len(s.keys)
}

// Keys returns the keys in insertion order.
func (s *InvalidKeySet) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Flush rewrites the cache file at path with every key in the set.
func (s *InvalidKeySet) Flush(path string) error {
	var b strings.Builder
	for _, k := range s.keys {
		b.WriteString(k)
		b.WriteByte('\n')
	}
	if err := WriteFileAtomic(path, []byte(b.String())); err != nil {
		return storageError("flush invalid key cache", err)
	}
	metrics.InvalidKeyCacheSize.Set(float64(s.Len()))
	return nil
}
