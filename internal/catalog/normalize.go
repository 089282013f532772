// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReleaseDateLayout is the sortable output format of NormalizeReleaseDate:
// no fractional seconds, no zone suffix.
const ReleaseDateLayout = "2006-01-02T15:04:05"

// ErrUnparseableDate is returned for values no known layout accepts.
var ErrUnparseableDate = errors.New("unparseable date")

// releaseDateLayouts lists the shapes the service has been seen to use, most
// common first. Month, day and 12-hour fields accept one or two digits.
var releaseDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06",
	"2006-01-02",
}

// NormalizeReleaseDate applies the release date heuristic. The service mixes
// UTC and US Pacific wall-clock times; an hour of 18 is taken as UTC during
// standard time and shifted back 8 hours, an hour of 17 as UTC during daylight
// time and shifted back 7 hours. Every other value keeps its wall-clock time.
// The hour is read as written, whatever zone suffix the value carries, and the
// result drops the zone.
//
// This is a heuristic, not a time zone conversion. Outputs never have hour 17
// or 18, so normalizing twice is the same as normalizing once.
func NormalizeReleaseDate(raw string) (string, error) {
	t, err := parseReleaseDate(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}

	switch t.Hour() {
	case 18:
		t = t.Add(-8 * time.Hour)
	case 17:
		t = t.Add(-7 * time.Hour)
	}
	return t.Format(ReleaseDateLayout), nil
}

func parseReleaseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrUnparseableDate)
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Keep the wall clock as written; arithmetic in a zone with DST
			// could otherwise move it.
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
}
