// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

func partition(name string, keys ...string) Partition {
	return Partition{Name: name, Keys: keys}
}

func recordIDs(t *testing.T, records []Record) []string {
	t.Helper()
	ids := make([]string, 0, len(records))
	for _, r := range records {
		id, ok := r.String(DefaultIDField)
		if !ok {
			t.Fatalf("record without %s: %v", DefaultIDField, r.Keys())
		}
		ids = append(ids, id)
	}
	return ids
}

func TestFetchBulkSuccess(t *testing.T) {
	svc := newFakeService()
	svc.addSet(t, "base1", "c1", "c2", "c3")
	pacer := &recordingPacer{svc: svc}
	progress := &countingProgress{}

	res, err := NewFetcher(svc, "", pacer, progress).Fetch(context.Background(), partition("base1", "c1", "c2", "c3"), NewInvalidKeySet())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if res.Outcome != OutcomeBulk {
		t.Errorf("Outcome = %s, want bulk", res.Outcome)
	}
	if got := recordIDs(t, res.Records); !reflect.DeepEqual(got, []string{"c1", "c2", "c3"}) {
		t.Errorf("records = %v", got)
	}
	if len(svc.queryLog()) != 1 {
		t.Errorf("queries = %v, want one bulk query", svc.queryLog())
	}
	if len(pacer.queriesAt) != 0 {
		t.Error("bulk success must not wait on the pacer")
	}
	if progress.done != 3 {
		t.Errorf("progress = %d, want 3", progress.done)
	}
}

func TestFetchFallbackProbing(t *testing.T) {
	svc := newFakeService()
	svc.addSet(t, "base1", "c1", "c2", "c3")
	svc.invalid["c2"] = true
	pacer := &recordingPacer{svc: svc}
	progress := &countingProgress{}
	invalid := NewInvalidKeySet()

	res, err := NewFetcher(svc, "", pacer, progress).Fetch(context.Background(), partition("base1", "c1", "c2", "c3"), invalid)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if res.Outcome != OutcomeProbed {
		t.Errorf("Outcome = %s, want probed", res.Outcome)
	}
	want := [][]string{{"c1", "c2", "c3"}, {"c1"}, {"c2"}, {"c3"}}
	if got := svc.queryLog(); !reflect.DeepEqual(got, want) {
		t.Errorf("queries = %v, want %v", got, want)
	}
	// One wait before every probe, none before the bulk query.
	if !reflect.DeepEqual(pacer.queriesAt, []int{1, 2, 3}) {
		t.Errorf("pacer waited after %v queries, want [1 2 3]", pacer.queriesAt)
	}
	if got := recordIDs(t, res.Records); !reflect.DeepEqual(got, []string{"c1", "c3"}) {
		t.Errorf("records = %v, want [c1 c3]", got)
	}
	if !reflect.DeepEqual(res.NewInvalid, []string{"c2"}) {
		t.Errorf("NewInvalid = %v", res.NewInvalid)
	}
	if !reflect.DeepEqual(invalid.Keys(), []string{"c2"}) {
		t.Errorf("invalid set = %v", invalid.Keys())
	}
	if progress.done != 3 {
		t.Errorf("progress = %d, want 3", progress.done)
	}
}

func TestFetchSkipsKnownInvalidKeys(t *testing.T) {
	svc := newFakeService()
	svc.addSet(t, "base1", "c1", "c2", "c3")
	svc.invalid["c2"] = true

	res, err := NewFetcher(svc, "", &recordingPacer{svc: svc}, nil).Fetch(context.Background(), partition("base1", "c1", "c2", "c3"), NewInvalidKeySet("c2"))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if res.Outcome != OutcomeBulk || res.Requested != 2 {
		t.Errorf("result = %+v, want bulk with 2 requested", res)
	}
	if got := svc.queryLog(); !reflect.DeepEqual(got, [][]string{{"c1", "c3"}}) {
		t.Errorf("queries = %v, want [[c1 c3]]", got)
	}
}

func TestFetchAllKeysKnownInvalid(t *testing.T) {
	svc := newFakeService()
	progress := &countingProgress{}

	res, err := NewFetcher(svc, "", nil, progress).Fetch(context.Background(), partition("p", "a", "b"), NewInvalidKeySet("a", "b"))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if res.Outcome != OutcomeSkipped {
		t.Errorf("Outcome = %s, want skipped", res.Outcome)
	}
	if len(svc.queryLog()) != 0 {
		t.Errorf("queries = %v, want none", svc.queryLog())
	}
	if progress.done != 2 {
		t.Errorf("progress = %d, want 2", progress.done)
	}
}

func TestFetchEmptyBulkIsAnomalyNotError(t *testing.T) {
	svc := newFakeService()
	svc.addSet(t, "p", "a", "b")
	svc.emptyBulk = true

	res, err := NewFetcher(svc, "", nil, nil).Fetch(context.Background(), partition("p", "a", "b"), NewInvalidKeySet())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if res.Outcome != OutcomeEmpty || len(res.Records) != 0 {
		t.Errorf("result = %+v, want empty outcome without records", res)
	}
}

func TestFetchUnexpectedBulkError(t *testing.T) {
	svc := newFakeService()
	svc.addSet(t, "base1", "c1", "c2", "c3")
	svc.bulkCode, svc.bulkMessage = 500, "internal error"
	pacer := &recordingPacer{svc: svc}

	_, err := NewFetcher(svc, "", pacer, nil).Fetch(context.Background(), partition("base1", "c1", "c2", "c3"), NewInvalidKeySet())
	if !errors.Is(err, ErrUnexpectedService) {
		t.Fatalf("error = %v, want ErrUnexpectedService", err)
	}
	var se *ServiceError
	if !errors.As(err, &se) || se.Code != 500 || se.Message != "internal error" || se.Key != "" {
		t.Errorf("ServiceError = %+v", se)
	}
	if len(pacer.queriesAt) != 0 || len(svc.queryLog()) != 1 {
		t.Error("an unexpected bulk error must not fall back to probing")
	}
}

func TestFetchRejectionNeedsExactSignal(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		message string
	}{
		{"right code wrong message", RejectionCode, "Invalid cardIDs"},
		{"right message wrong code", 34104, RejectionMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService()
			svc.bulkCode, svc.bulkMessage = tt.code, tt.message
			_, err := NewFetcher(svc, "", &recordingPacer{svc: svc}, nil).Fetch(context.Background(), partition("p", "a", "b"), NewInvalidKeySet())
			if !errors.Is(err, ErrUnexpectedService) {
				t.Errorf("error = %v, want ErrUnexpectedService", err)
			}
		})
	}
}

func TestFetchProbeErrorAborts(t *testing.T) {
	svc := newFakeService()
	svc.addSet(t, "p", "a", "b", "c")
	svc.invalid["a"] = true
	svc.failKeys["b"] = true
	invalid := NewInvalidKeySet()

	_, err := NewFetcher(svc, "", &recordingPacer{svc: svc}, nil).Fetch(context.Background(), partition("p", "a", "b", "c"), invalid)
	var se *ServiceError
	if !errors.As(err, &se) || se.Key != "b" || se.Code != 500 {
		t.Fatalf("error = %v, want ServiceError for key b", err)
	}
	if got := len(svc.queryLog()); got != 3 {
		t.Errorf("queries = %d, want bulk plus probes of a and b", got)
	}
	// Keys confirmed before the error stay confirmed.
	if !invalid.Contains("a") {
		t.Error("key a should be recorded invalid")
	}
}

func TestFetchProbeHonorsContext(t *testing.T) {
	svc := newFakeService()
	svc.addSet(t, "p", "a", "b", "c")
	svc.invalid["a"] = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pacer := &recordingPacer{svc: svc, cancelWith: cancel, cancelAt: 2}

	_, err := NewFetcher(svc, "", pacer, nil).Fetch(ctx, partition("p", "a", "b", "c"), NewInvalidKeySet())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if got := len(svc.queryLog()); got != 2 {
		t.Errorf("queries = %d, want bulk plus one probe", got)
	}
}

// Every key of a rejected batch ends up exactly once in either the records
// or the newly invalid keys.
func TestFallbackCompleteness(t *testing.T) {
	for seed := 0; seed < 8; seed++ {
		t.Run(fmt.Sprintf("pattern%d", seed), func(t *testing.T) {
			svc := newFakeService()
			keys := make([]string, 12)
			for i := range keys {
				keys[i] = fmt.Sprintf("k%02d", i)
			}
			svc.addSet(t, "p", keys...)
			for i, k := range keys {
				if (i*7+seed)%3 == 0 {
					svc.invalid[k] = true
				}
			}

			res, err := NewFetcher(svc, "", &recordingPacer{svc: svc}, nil).Fetch(context.Background(), partition("p", keys...), NewInvalidKeySet())
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}

			seen := make(map[string]int)
			for _, id := range recordIDs(t, res.Records) {
				seen[id]++
			}
			for _, k := range res.NewInvalid {
				seen[k]++
				if !svc.invalid[k] {
					t.Errorf("%s classified invalid but the service serves it", k)
				}
			}
			for _, k := range keys {
				if seen[k] != 1 {
					t.Errorf("%s classified %d times", k, seen[k])
				}
			}
		})
	}
}

func TestRatePacerSpacing(t *testing.T) {
	p := NewRatePacer(20 * time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	// The first wait is paced too.
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("three waits took %v, want at least ~60ms", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewRatePacer(time.Hour).Wait(ctx); err == nil {
		t.Error("Wait() on a canceled context should fail")
	}
	if err := NewRatePacer(0).Wait(context.Background()); err != nil {
		t.Errorf("zero interval Wait() error = %v", err)
	}
}
