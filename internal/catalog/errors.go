// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package catalog

import (
	"errors"
	"fmt"
)

// The bulk rejection signal. The service sends it when at least one key of a
// query is unfetchable, without saying which. Both parts must match exactly.
const (
	RejectionCode    = 34103
	RejectionMessage = "Invalid cardIDs requested"
)

var (
	// ErrUnexpectedService indicates a non-zero service code other than the
	// rejection signal, or a result that cannot be interpreted. Fatal to the run.
	ErrUnexpectedService = errors.New("unexpected service error")

	// ErrStorage indicates a local file system failure. Fatal to the run.
	ErrStorage = errors.New("storage failure")

	// ErrManifest indicates a partition manifest or compendium that cannot be read.
	ErrManifest = errors.New("invalid partition manifest")
)

// ServiceError reports an unexpected service code. It matches
// ErrUnexpectedService with errors.Is.
type ServiceError struct {
	Query     string
	Partition string
	// Key is set when the error came from a single-key probe.
	Key     string
	Code    int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("query %s for partition %s key %s: service error %d: %s", e.Query, e.Partition, e.Key, e.Code, e.Message)
	}
	return fmt.Sprintf("query %s for partition %s: service error %d: %s", e.Query, e.Partition, e.Code, e.Message)
}

// Is reports whether target is ErrUnexpectedService.
func (e *ServiceError) Is(target error) bool {
	return target == ErrUnexpectedService
}

func isRejection(code int, message string) bool {
	return code == RejectionCode && message == RejectionMessage
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
