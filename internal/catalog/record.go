// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Record is one catalog record as returned by the service. Its schema is
// opaque; only the identifier field and the release date field are read.
// Members keep the order the service sent them in.
type Record struct {
	keys   []string
	fields map[string]json.RawMessage
}

// NewRecord builds a record from alternating key/value pairs, values being
// raw JSON. It panics on an odd argument count and is meant for tests and
// fixtures.
func NewRecord(kv ...string) Record {
	if len(kv)%2 != 0 {
		panic("catalog.NewRecord: odd number of arguments")
	}
	var r Record
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i], json.RawMessage(kv[i+1]))
	}
	return r
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	*r = Record{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	return decodeObject(data, func(key string, value json.RawMessage) error {
		r.Set(key, value)
		return nil
	})
}

// MarshalJSON writes the record compactly, members in their original order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf, value bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		// goccy's Compact keeps whatever dst already holds, so each value
		// goes through its own buffer.
		value.Reset()
		if err := json.Compact(&value, r.fields[key]); err != nil {
			return nil, fmt.Errorf("member %q: %w", key, err)
		}
		buf.Write(value.Bytes())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the raw value of key.
func (r Record) Get(key string) (json.RawMessage, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Set replaces the value of key, appending it when new.
func (r *Record) Set(key string, value json.RawMessage) {
	if r.fields == nil {
		r.fields = make(map[string]json.RawMessage)
	}
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = value
}

// String returns the value of key when it is a JSON string.
func (r Record) String(key string) (string, bool) {
	raw, ok := r.fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Keys returns the member names in order.
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of members.
func (r Record) Len() int {
	return len(r.keys)
}
