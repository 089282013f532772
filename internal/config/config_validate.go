// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/catalogsync/internal/validation"
)

// Validate checks struct tags first, then the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateIdentity(); err != nil {
		return err
	}

	if err := c.validateService(); err != nil {
		return err
	}

	return c.validateSync()
}

func (c *Config) validateIdentity() error {
	if err := validateEndpointURL(c.Identity.AuthorizeURL, "identity.authorize_url", "https", "http"); err != nil {
		return err
	}
	if err := validateEndpointURL(c.Identity.TokenURL, "identity.token_url", "https", "http"); err != nil {
		return err
	}
	if c.Identity.CallbackURL != "" {
		if err := validateCallbackURL(c.Identity.CallbackURL); err != nil {
			return fmt.Errorf("identity.callback_url is invalid: %w", err)
		}
	}
	return nil
}

// validateService checks that the service URL selects a known wire.
func (c *Config) validateService() error {
	return validateEndpointURL(c.Service.URL, "service.url", "https", "http", "wss", "ws")
}

func (c *Config) validateSync() error {
	if strings.ContainsAny(c.Sync.Category, `/\`) || c.Sync.Category == ".." {
		return fmt.Errorf("sync.category must be a single directory name, got: %q", c.Sync.Category)
	}
	for _, p := range c.Sync.Partitions {
		if strings.ContainsAny(p, `/\`) || p == ".." || p == "." {
			return fmt.Errorf("sync.partitions contains an invalid partition name: %q", p)
		}
	}
	return nil
}
