// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogsync/internal/transport"
)

// fakeService is an in-memory card data service.
type fakeService struct {
	mu sync.Mutex

	docs map[string]*transport.Document
	// records maps a key to its record JSON.
	records map[string]string
	// invalid keys make any query containing them rejected.
	invalid map[string]bool
	// failKeys answer single-key queries with code 500.
	failKeys map[string]bool
	// bulkCode, when set, is returned for every multi-key query.
	bulkCode    int
	bulkMessage string
	// emptyBulk answers successful multi-key queries with no records.
	emptyBulk bool

	queries [][]string
}

func newFakeService() *fakeService {
	return &fakeService{
		docs:     make(map[string]*transport.Document),
		records:  make(map[string]string),
		invalid:  make(map[string]bool),
		failKeys: make(map[string]bool),
	}
}

// addSet registers a partition and a default record for each key.
func (f *fakeService) addSet(t *testing.T, name string, keys ...string) {
	t.Helper()
	var sets []string
	if doc, ok := f.docs[SetManifestDocument]; ok {
		var m struct {
			Sets []string `json:"sets"`
		}
		if err := json.Unmarshal([]byte(doc.Blocks[setManifestBlock].ContentString), &m); err != nil {
			t.Fatalf("decode fake manifest: %v", err)
		}
		sets = m.Sets
	}
	sets = append(sets, name)
	manifest, _ := json.Marshal(map[string][]string{"sets": sets})
	f.docs[SetManifestDocument] = &transport.Document{
		ID:     SetManifestDocument,
		Blocks: map[string]transport.Block{setManifestBlock: {ContentString: string(manifest)}},
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `%q:"00000000-0000-4000-8000-%012d"`, k, i)
		if _, ok := f.records[k]; !ok {
			f.records[k] = fmt.Sprintf(`{"cardSourceID":%q,"name":"card %s"}`, k, k)
		}
	}
	b.WriteByte('}')
	f.docs[CompendiumDocument(name)] = &transport.Document{
		ID:     CompendiumDocument(name),
		Blocks: map[string]transport.Block{compendiumBlock: {ContentString: b.String()}},
	}
}

func (f *fakeService) Register(context.Context, transport.Registration) error { return nil }
func (f *fakeService) Authenticate(context.Context, string, string) error     { return nil }
func (f *fakeService) Close() error                                           { return nil }

func (f *fakeService) GetDocument(_ context.Context, name string) (*transport.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[name]
	if !ok {
		return nil, transport.ErrDocumentNotFound
	}
	return d, nil
}

func (f *fakeService) GetDocuments(ctx context.Context, names []string) (map[string]*transport.Document, error) {
	out := make(map[string]*transport.Document, len(names))
	for _, n := range names {
		d, err := f.GetDocument(ctx, n)
		if err != nil {
			return nil, err
		}
		out[n] = d
	}
	return out, nil
}

func (f *fakeService) Query(_ context.Context, name string, payload any) (*transport.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if name != DefaultQuery {
		return &transport.Response{Error: 404, Message: "unknown query " + name}, nil
	}
	keys := payload.(map[string][]string)[keysField]
	f.queries = append(f.queries, append([]string(nil), keys...))

	if len(keys) > 1 && f.bulkCode != 0 {
		return &transport.Response{Error: f.bulkCode, Message: f.bulkMessage}, nil
	}
	for _, k := range keys {
		if f.invalid[k] {
			return &transport.Response{Error: RejectionCode, Message: RejectionMessage}, nil
		}
	}
	if len(keys) == 1 && f.failKeys[keys[0]] {
		return &transport.Response{Error: 500, Message: "internal error"}, nil
	}
	if len(keys) > 1 && f.emptyBulk {
		return &transport.Response{Result: json.RawMessage(`[]`)}, nil
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if r, ok := f.records[k]; ok {
			parts = append(parts, r)
		}
	}
	return &transport.Response{Result: json.RawMessage("[" + strings.Join(parts, ",") + "]")}, nil
}

// queried reports whether any query so far contained key.
func (f *fakeService) queried(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.queries {
		for _, k := range q {
			if k == key {
				return true
			}
		}
	}
	return false
}

func (f *fakeService) queryLog() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.queries...)
}

// recordingPacer counts waits and remembers how many queries preceded each.
type recordingPacer struct {
	svc        *fakeService
	queriesAt  []int
	cancelWith context.CancelFunc
	cancelAt   int
}

func (p *recordingPacer) Wait(ctx context.Context) error {
	p.queriesAt = append(p.queriesAt, len(p.svc.queryLog()))
	if p.cancelWith != nil && len(p.queriesAt) == p.cancelAt {
		p.cancelWith()
	}
	return ctx.Err()
}

// countingProgress sums progress increments.
type countingProgress struct {
	total, done int
	descs       []string
	finished    bool
}

func (c *countingProgress) Start(total int)      { c.total = total }
func (c *countingProgress) Describe(desc string) { c.descs = append(c.descs, desc) }
func (c *countingProgress) Add(n int)            { c.done += n }
func (c *countingProgress) Finish()              { c.finished = true }
