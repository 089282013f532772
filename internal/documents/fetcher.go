// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/catalogsync/internal/catalog"
	"github.com/tomtom215/catalogsync/internal/logging"
	"github.com/tomtom215/catalogsync/internal/metrics"
	"github.com/tomtom215/catalogsync/internal/transport"
)

var (
	// ErrUnknownJob is returned by Run for a name not in Jobs.
	ErrUnknownJob = errors.New("unknown document job")

	// ErrMissingBlock indicates a document without the expected block.
	ErrMissingBlock = errors.New("document block missing")
)

// Options configures a Fetcher.
type Options struct {
	// Root is the output root directory.
	Root string

	// DefinitionsCategory receives feature flags and AI customizations.
	// Default: card-definitions
	DefinitionsCategory string

	// Locale replaces {0} in card database names.
	// Default: en
	Locale string

	// AISamples is the number of AI customization answers captured.
	// Default: 1
	AISamples int
}

// Result lists the files one job wrote.
type Result struct {
	Job   string
	Files []string
}

// Fetcher downloads single documents and query answers to files.
type Fetcher struct {
	client transport.Client
	opts   Options
	now    func() time.Time
}

// New returns a Fetcher using client.
func New(client transport.Client, opts Options) *Fetcher {
	if opts.DefinitionsCategory == "" {
		opts.DefinitionsCategory = DefaultDefinitionsCategory
	}
	if opts.Locale == "" {
		opts.Locale = "en"
	}
	if opts.AISamples < 1 {
		opts.AISamples = 1
	}
	return &Fetcher{client: client, opts: opts, now: time.Now}
}

// Run executes the named job.
func (f *Fetcher) Run(ctx context.Context, job string) (*Result, error) {
	log := logging.Ctx(ctx).With().Str("component", "documents").Str("job", job).Logger()

	var (
		files []string
		err   error
	)
	switch job {
	case JobCardDatabases:
		files, err = f.cardDatabases(ctx)
	case JobQuests:
		files, err = f.quests(ctx)
	case JobAICustomizations:
		files, err = f.aiCustomizations(ctx)
	default:
		specs, ok := staticJobs[job]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownJob, job)
		}
		files, err = f.fetchDocuments(ctx, specs)
	}

	metrics.RecordDocument(job, err)
	if err != nil {
		return nil, fmt.Errorf("document job %s: %w", job, err)
	}
	log.Info().Int("files", len(files)).Msg("Document job complete")
	return &Result{Job: job, Files: files}, nil
}

// RunAll executes jobs in the order given and stops at the first failure.
func (f *Fetcher) RunAll(ctx context.Context, jobs []string) ([]*Result, error) {
	results := make([]*Result, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r, err := f.Run(ctx, job)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (f *Fetcher) fetchDocuments(ctx context.Context, specs []docSpec) ([]string, error) {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.document
	}

	var docs map[string]*transport.Document
	if len(names) == 1 {
		doc, err := f.client.GetDocument(ctx, names[0])
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", names[0], err)
		}
		docs = map[string]*transport.Document{names[0]: doc}
	} else {
		var err error
		if docs, err = f.client.GetDocuments(ctx, names); err != nil {
			return nil, fmt.Errorf("fetch documents: %w", err)
		}
	}

	files := make([]string, 0, len(specs))
	for _, s := range specs {
		doc, ok := docs[s.document]
		if !ok {
			return files, fmt.Errorf("%s: %w", s.document, transport.ErrDocumentNotFound)
		}
		path, err := f.writeBlock(doc, s)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

func (f *Fetcher) writeBlock(doc *transport.Document, s docSpec) (string, error) {
	block, ok := doc.Blocks[s.block]
	if !ok {
		return "", fmt.Errorf("%w: %s has no %q block", ErrMissingBlock, s.document, s.block)
	}
	data := []byte(block.ContentString)
	if s.binary {
		data = block.ContentBinary
	}
	return f.write(s.category, s.file, data)
}

func (f *Fetcher) write(category, file string, data []byte) (string, error) {
	if category == definitions {
		category = f.opts.DefinitionsCategory
	}
	path := filepath.Join(f.opts.Root, category, file)
	if err := catalog.WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", catalog.ErrStorage, path, err)
	}
	return path, nil
}

// cardDatabases reads the card database manifest, a JSON list of name
// patterns, and downloads the table of every pattern in the configured
// locale as <document>.db.
func (f *Fetcher) cardDatabases(ctx context.Context) ([]string, error) {
	doc, err := f.client.GetDocument(ctx, cardDatabaseManifest)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", cardDatabaseManifest, err)
	}
	block, ok := doc.Blocks[cardDatabaseManifestBlock]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %q block", ErrMissingBlock, cardDatabaseManifest, cardDatabaseManifestBlock)
	}
	var patterns []string
	if err := json.Unmarshal(block.Bytes(), &patterns); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", catalog.ErrUnexpectedService, cardDatabaseManifest, err)
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	specs := make([]docSpec, len(patterns))
	for i, p := range patterns {
		name := CardDatabaseDocument(p, f.opts.Locale)
		specs[i] = docSpec{
			document: name,
			block:    cardDatabaseBlock,
			category: CategoryCardDatabase,
			file:     name + ".db",
			binary:   true,
		}
	}
	return f.fetchDocuments(ctx, specs)
}

// CardDatabaseDocument returns the document name of a card database manifest
// entry for locale.
func CardDatabaseDocument(pattern, locale string) string {
	return "card-database-" + strings.ReplaceAll(pattern, localePlaceholder, locale) + "_0.0"
}

// queryContext is the payload of context-style queries, which repeat their
// own name.
type queryContext struct {
	Query    string `json:"query"`
	GameMode string `json:"gameMode,omitempty"`
}

func (f *Fetcher) query(ctx context.Context, payload queryContext) (json.RawMessage, error) {
	resp, err := f.client.Query(ctx, payload.Query, payload)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", payload.Query, err)
	}
	if resp.Error != 0 {
		return nil, fmt.Errorf("%w: query %s: service error %d: %s", catalog.ErrUnexpectedService, payload.Query, resp.Error, resp.Message)
	}
	if len(bytes.TrimSpace(resp.Result)) == 0 {
		return nil, fmt.Errorf("%w: query %s: empty result", catalog.ErrUnexpectedService, payload.Query)
	}
	return resp.Result, nil
}

// quests stores the quest setup, indented for diffing.
func (f *Fetcher) quests(ctx context.Context) ([]string, error) {
	result, err := f.query(ctx, queryContext{Query: questQuery})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, result, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", catalog.ErrUnexpectedService, questQuery, err)
	}
	buf.WriteByte('\n')

	path, err := f.write(CategoryQuestData, "current-quest-data.json", buf.Bytes())
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// aiCustomizations captures AISamples answers of the AI customization query.
// The answers vary between calls, so each is kept under its capture time.
func (f *Fetcher) aiCustomizations(ctx context.Context) ([]string, error) {
	files := make([]string, 0, f.opts.AISamples)
	last := int64(0)
	for i := 0; i < f.opts.AISamples; i++ {
		result, err := f.query(ctx, queryContext{Query: aiCustomizationQuery, GameMode: "Standard"})
		if err != nil {
			return files, err
		}

		stamp := f.now().UnixNano()
		if stamp <= last {
			stamp = last + 1
		}
		last = stamp

		name := fmt.Sprintf("ai-customizations/ai-customization-%d.json", stamp)
		path, err := f.write(definitions, name, result)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}
