// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

// Progress receives fetch progress. It is a side channel: nothing it does
// affects what is fetched or written.
type Progress interface {
	// Start announces the total number of keys over all partitions.
	Start(total int)
	// Describe names the current step.
	Describe(desc string)
	// Add advances progress by n keys.
	Add(n int)
	// Finish ends reporting.
	Finish()
}

// NopProgress discards progress.
type NopProgress struct{}

func (NopProgress) Start(int)       {}
func (NopProgress) Describe(string) {}
func (NopProgress) Add(int)         {}
func (NopProgress) Finish()         {}
