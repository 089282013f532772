// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/catalogsync/internal/logging"
	"github.com/tomtom215/catalogsync/internal/transport"
)

// Service document names.
const (
	SetManifestDocument = "set-manifest_0.0"
	setManifestBlock    = "manifest"
	compendiumSuffix    = "-compendium_0.0"
	compendiumBlock     = "compendium"
)

// Partition is one named subset of the catalog, fetched as a unit.
type Partition struct {
	Name string
	// Keys are in compendium order.
	Keys []string
	// Versions maps each key to its version identifier.
	Versions map[string]uuid.UUID
}

// Manifest lists the partitions of one run in set-manifest order. It is
// fetched fresh every run and never modified.
type Manifest struct {
	Partitions []Partition
}

// TotalKeys returns the number of keys over all partitions.
func (m *Manifest) TotalKeys() int {
	n := 0
	for _, p := range m.Partitions {
		n += len(p.Keys)
	}
	return n
}

// CompendiumDocument returns the document name holding partition's compendium.
func CompendiumDocument(partition string) string {
	return partition + compendiumSuffix
}

// LoadManifest fetches the set manifest and the compendium of every set in
// it. When only is non-empty, just those sets are kept, in manifest order;
// names absent from the manifest are logged and ignored.
func LoadManifest(ctx context.Context, client transport.Client, only []string) (*Manifest, error) {
	log := logging.Ctx(ctx).With().Str("component", "manifest").Logger()

	doc, err := client.GetDocument(ctx, SetManifestDocument)
	if err != nil {
		return nil, fmt.Errorf("fetch set manifest: %w", err)
	}
	block, ok := doc.Blocks[setManifestBlock]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %q block", ErrManifest, SetManifestDocument, setManifestBlock)
	}

	var setManifest struct {
		Sets []string `json:"sets"`
	}
	if err := json.Unmarshal(block.Bytes(), &setManifest); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrManifest, SetManifestDocument, err)
	}

	safe, unsafe := safeSetNames(setManifest.Sets)
	if len(unsafe) > 0 {
		log.Warn().Strs("partitions", unsafe).Msg("Set names are not usable directory names, skipped")
	}

	sets, unknown := filterSets(safe, only)
	if len(unknown) > 0 {
		log.Warn().Strs("partitions", unknown).Msg("Requested partitions are not in the set manifest")
	}
	if len(sets) == 0 {
		log.Warn().Int("manifest_sets", len(setManifest.Sets)).Msg("No partitions selected")
		return &Manifest{}, nil
	}

	names := make([]string, len(sets))
	for i, set := range sets {
		names[i] = CompendiumDocument(set)
	}
	docs, err := client.GetDocuments(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("fetch compendiums: %w", err)
	}

	m := &Manifest{Partitions: make([]Partition, 0, len(sets))}
	for i, set := range sets {
		d, ok := docs[names[i]]
		if !ok {
			return nil, fmt.Errorf("%w: %s missing from answer", ErrManifest, names[i])
		}
		p, err := parseCompendium(set, d)
		if err != nil {
			return nil, err
		}
		m.Partitions = append(m.Partitions, p)
	}

	log.Info().
		Int("partitions", len(m.Partitions)).
		Int("keys", m.TotalKeys()).
		Msg("Partition manifest loaded")
	return m, nil
}

func parseCompendium(set string, doc *transport.Document) (Partition, error) {
	p := Partition{Name: set, Versions: make(map[string]uuid.UUID)}

	block, ok := doc.Blocks[compendiumBlock]
	if !ok {
		return p, fmt.Errorf("%w: %s has no %q block", ErrManifest, CompendiumDocument(set), compendiumBlock)
	}

	err := decodeObject(block.Bytes(), func(key string, value json.RawMessage) error {
		var raw string
		if err := json.Unmarshal(value, &raw); err != nil {
			return fmt.Errorf("version of %q: %w", key, err)
		}
		version, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("version of %q: %w", key, err)
		}
		if _, dup := p.Versions[key]; !dup {
			p.Keys = append(p.Keys, key)
		}
		p.Versions[key] = version
		return nil
	})
	if err != nil {
		return p, fmt.Errorf("%w: decode %s: %w", ErrManifest, CompendiumDocument(set), err)
	}
	return p, nil
}

// safeSetNames splits sets into names usable as a partition directory and
// names that are not.
func safeSetNames(sets []string) (safe, unsafe []string) {
	safe = make([]string, 0, len(sets))
	for _, set := range sets {
		if validFileName(set) {
			safe = append(safe, set)
		} else {
			unsafe = append(unsafe, set)
		}
	}
	return safe, unsafe
}

// filterSets keeps the sets named in only, preserving manifest order, and
// returns the names of only that matched nothing.
func filterSets(sets, only []string) (kept, unknown []string) {
	if len(only) == 0 {
		return sets, nil
	}
	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[strings.TrimSpace(name)] = false
	}

	for _, set := range sets {
		if _, ok := wanted[set]; ok {
			wanted[set] = true
			kept = append(kept, set)
		}
	}
	for _, name := range only {
		name = strings.TrimSpace(name)
		if !wanted[name] {
			unknown = append(unknown, name)
			wanted[name] = true
		}
	}
	return kept, unknown
}
