// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator that reports failing fields by
// their koanf path, so a configuration error reads the way the operator wrote
// the key:
//
//	sync.query is required; documents.ai_samples must be greater than or equal to 1
//
// # Custom Tags
//
//   - loglevel: one of the level names accepted by internal/logging
//
// # Usage
//
//	type SyncConfig struct {
//	    Query      string        `koanf:"query" validate:"required"`
//	    ProbeDelay time.Duration `koanf:"probe_delay" validate:"gte=0"`
//	}
//
//	if err := validation.ValidateStruct(cfg); err != nil {
//	    return fmt.Errorf("invalid configuration: %w", err)
//	}
package validation
