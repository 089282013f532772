// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Service.URL = "https://query.example.net"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults plus service url", func(*Config) {}, ""},
		{"websocket service", func(c *Config) { c.Service.URL = "wss://query.example.net/socket" }, ""},
		{"missing service url", func(c *Config) { c.Service.URL = "" }, "service.url is required"},
		{"unsupported scheme", func(c *Config) { c.Service.URL = "ftp://query.example.net" }, "service.url scheme"},
		{"no host", func(c *Config) { c.Service.URL = "https://" }, "service.url host is required"},
		{"no scopes", func(c *Config) { c.Identity.Scopes = nil }, "identity.scopes"},
		{"zero auth timeout", func(c *Config) { c.Identity.Timeout = 0 }, "identity.timeout"},
		{"callback without query", func(c *Config) { c.Identity.CallbackURL = "https://tpcitcgapp/callback" }, "no query string"},
		{"callback with query", func(c *Config) { c.Identity.CallbackURL = "https://tpcitcgapp/callback?code=abc" }, ""},
		{"negative probe delay", func(c *Config) { c.Sync.ProbeDelay = -1 }, "sync.probe_delay"},
		{"zero probe delay allowed", func(c *Config) { c.Sync.ProbeDelay = 0 }, ""},
		{"nested category", func(c *Config) { c.Sync.Category = "a/b" }, "single directory name"},
		{"bad partition", func(c *Config) { c.Sync.Partitions = []string{"base1", ".."} }, "invalid partition name"},
		{"missing query", func(c *Config) { c.Sync.Query = "" }, "sync.query is required"},
		{"zero ai samples", func(c *Config) { c.Documents.AISamples = 0 }, "documents.ai_samples"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Sync.OutputDir = "/srv/catalog"

	if got, want := cfg.CategoryDir(), filepath.Join("/srv/catalog", "card-definitions"); got != want {
		t.Errorf("CategoryDir() = %q, want %q", got, want)
	}
	if got, want := cfg.InvalidKeyCachePath(), filepath.Join("/srv/catalog", "card-definitions", "invalid-card-ids.txt"); got != want {
		t.Errorf("InvalidKeyCachePath() = %q, want %q", got, want)
	}
	if got, want := cfg.JournalPath(), filepath.Join("/srv/catalog", ".catalogsync-journal"); got != want {
		t.Errorf("JournalPath() = %q, want %q", got, want)
	}

	cfg.Journal.Path = "/var/lib/catalogsync"
	if got := cfg.JournalPath(); got != "/var/lib/catalogsync" {
		t.Errorf("JournalPath() = %q, want override", got)
	}
}
