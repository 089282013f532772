// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

/*
fetcher.go - Adaptive Batch Fetcher

Fetches the records of one partition from a service that rejects a whole
batch when any key in it is unfetchable, without naming the key.

States:
  - stateBulk: one query with every key not already known invalid
  - stateProbe: one paced query per key, entered only on the rejection signal

The only transition is stateBulk -> stateProbe. Every other non-zero code is
returned as a *ServiceError and ends the run.
*/

//nolint:staticcheck // File documentation, not package doc
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/catalogsync/internal/logging"
	"github.com/tomtom215/catalogsync/internal/metrics"
	"github.com/tomtom215/catalogsync/internal/transport"
)

// DefaultQuery is the card data query name.
const DefaultQuery = "card-get-carddata"

// keysField is the payload member carrying the requested keys.
const keysField = "cardIDs"

type fetchState int

const (
	stateBulk fetchState = iota
	stateProbe
)

func (s fetchState) String() string {
	if s == stateProbe {
		return "probe"
	}
	return "bulk"
}

// Outcome is how a partition fetch finished.
type Outcome string

const (
	// OutcomeBulk means the bulk query returned records.
	OutcomeBulk Outcome = metrics.OutcomeBulk
	// OutcomeProbed means the bulk query was rejected and every key was probed.
	OutcomeProbed Outcome = metrics.OutcomeProbed
	// OutcomeEmpty means the bulk query succeeded with no records for a
	// non-empty request. This is logged as an anomaly, not an error.
	OutcomeEmpty Outcome = metrics.OutcomeEmpty
	// OutcomeSkipped means every key was already known invalid; nothing was queried.
	OutcomeSkipped Outcome = metrics.OutcomeSkipped
)

// FetchResult is the outcome of one partition.
type FetchResult struct {
	Partition string
	Outcome   Outcome
	// Requested counts the keys not already known invalid.
	Requested int
	Records   []Record
	// NewInvalid lists keys confirmed invalid by this fetch, in probe order.
	NewInvalid []string
}

// Fetcher runs the bulk/probe state machine for one partition at a time.
type Fetcher struct {
	client   transport.Client
	query    string
	pacer    Pacer
	progress Progress
}

// NewFetcher returns a Fetcher issuing query through client. A nil pacer
// uses DefaultProbeDelay; a nil progress discards progress.
func NewFetcher(client transport.Client, query string, pacer Pacer, progress Progress) *Fetcher {
	if query == "" {
		query = DefaultQuery
	}
	if pacer == nil {
		pacer = NewRatePacer(DefaultProbeDelay)
	}
	if progress == nil {
		progress = NopProgress{}
	}
	return &Fetcher{client: client, query: query, pacer: pacer, progress: progress}
}

// Fetch retrieves the records of every key of p not in invalid. Keys the
// service confirms invalid while probing are recorded in invalid as they are
// found. On error nothing of the partition should be written; invalid may
// already hold keys found before the error.
func (f *Fetcher) Fetch(ctx context.Context, p Partition, invalid *InvalidKeySet) (*FetchResult, error) {
	log := logging.Ctx(ctx).With().
		Str("component", "fetcher").
		Str("partition", p.Name).
		Logger()

	pending := make([]string, 0, len(p.Keys))
	for _, k := range p.Keys {
		if !invalid.Contains(k) {
			pending = append(pending, k)
		}
	}
	res := &FetchResult{Partition: p.Name, Requested: len(pending)}

	if len(pending) == 0 {
		log.Debug().Int("keys", len(p.Keys)).Msg("Every key is known invalid, skipping query")
		res.Outcome = OutcomeSkipped
		f.progress.Add(len(p.Keys))
		return res, nil
	}

	state := stateBulk
	for {
		switch state {
		case stateBulk:
			qr, err := f.run(ctx, p.Name, "", pending)
			if err != nil {
				return nil, err
			}
			metrics.RecordKeysRequested(state.String(), len(pending))

			switch {
			case isRejection(qr.Code, qr.Message):
				log.Info().
					Int("keys", len(pending)).
					Msg("Bulk query rejected, probing keys one by one")
				state = stateProbe
				continue
			case qr.Code != 0:
				return nil, f.serviceError(p.Name, "", qr)
			case len(qr.Records) == 0:
				log.Warn().Int("requested", len(pending)).Msg("Bulk query returned no records")
				res.Outcome = OutcomeEmpty
			default:
				res.Outcome = OutcomeBulk
				res.Records = qr.Records
			}
			f.progress.Add(len(p.Keys))
			return res, nil

		case stateProbe:
			if err := f.probe(ctx, p.Name, pending, invalid, res); err != nil {
				return nil, err
			}
			res.Outcome = OutcomeProbed
			// Keys skipped as known invalid were never probed.
			f.progress.Add(len(p.Keys) - len(pending))
			log.Info().
				Int("retrieved", len(res.Records)).
				Int("new_invalid", len(res.NewInvalid)).
				Msg("Probing finished")
			return res, nil
		}
	}
}

// probe queries each key alone. Every key ends up either retrieved or
// confirmed invalid; any other answer aborts.
func (f *Fetcher) probe(ctx context.Context, partition string, keys []string, invalid *InvalidKeySet, res *FetchResult) error {
	log := logging.Ctx(ctx)

	for i, key := range keys {
		f.progress.Describe(fmt.Sprintf("%s (probing %d/%d)", partition, i+1, len(keys)))
		if err := f.pacer.Wait(ctx); err != nil {
			return err
		}

		qr, err := f.run(ctx, partition, key, []string{key})
		if err != nil {
			return err
		}
		metrics.RecordKeysRequested(stateProbe.String(), 1)

		switch {
		case isRejection(qr.Code, qr.Message):
			invalid.Record(key)
			res.NewInvalid = append(res.NewInvalid, key)
			log.Debug().Str("partition", partition).Str("key", key).Msg("Key confirmed invalid")
		case qr.Code != 0:
			return f.serviceError(partition, key, qr)
		case len(qr.Records) == 0:
			return fmt.Errorf("%w: query %s for partition %s key %s returned no record", ErrUnexpectedService, f.query, partition, key)
		default:
			if len(qr.Records) > 1 {
				log.Debug().Str("key", key).Int("records", len(qr.Records)).Msg("Probe returned extra records, keeping the first")
			}
			res.Records = append(res.Records, qr.Records[0])
		}
		f.progress.Add(1)
	}
	return nil
}

// run issues one card data query and decodes the answer.
func (f *Fetcher) run(ctx context.Context, partition, key string, keys []string) (*queryResult, error) {
	start := time.Now()
	resp, err := f.client.Query(ctx, f.query, map[string][]string{keysField: keys})
	if err != nil {
		if key != "" {
			return nil, fmt.Errorf("query %s for partition %s key %s: %w", f.query, partition, key, err)
		}
		return nil, fmt.Errorf("query %s for partition %s: %w", f.query, partition, err)
	}

	qr, err := decodeQueryResult(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s for partition %s: %w", ErrUnexpectedService, f.query, partition, err)
	}
	logging.Ctx(ctx).Trace().
		Str("partition", partition).
		Int("keys", len(keys)).
		Int("code", qr.Code).
		Int("records", len(qr.Records)).
		Dur("duration", time.Since(start)).
		Msg("Card data query")
	return qr, nil
}

func (f *Fetcher) serviceError(partition, key string, qr *queryResult) error {
	return &ServiceError{
		Query:     f.query,
		Partition: partition,
		Key:       key,
		Code:      qr.Code,
		Message:   qr.Message,
	}
}
