// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package config

import (
	"path/filepath"
	"time"
)

// Config holds all configuration for a catalogsync run.
// Uses koanf struct tags for configuration loading from multiple sources.
type Config struct {
	Identity  IdentityConfig  `koanf:"identity"`
	Service   ServiceConfig   `koanf:"service"`
	Sync      SyncConfig      `koanf:"sync"`
	Documents DocumentsConfig `koanf:"documents"`
	Journal   JournalConfig   `koanf:"journal"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// IdentityConfig describes the OAuth2 client used for the PKCE login.
type IdentityConfig struct {
	// AuthorizeURL is the browser-facing authorization endpoint.
	AuthorizeURL string `koanf:"authorize_url" validate:"required,url"`

	// TokenURL is the code-exchange endpoint (form-encoded POST).
	TokenURL string `koanf:"token_url" validate:"required,url"`

	ClientID    string   `koanf:"client_id" validate:"required"`
	RedirectURI string   `koanf:"redirect_uri" validate:"required"`
	Scopes      []string `koanf:"scopes" validate:"min=1,dive,required"`

	// Audience is the space-separated audience parameter of the authorization URL.
	Audience string `koanf:"audience"`

	// Locale is sent as ui_locales.
	// Default: en
	Locale string `koanf:"locale"`

	// CallbackURL, when set, completes the login without prompting.
	// It must be the full redirect URL including the query string.
	CallbackURL string `koanf:"callback_url"`

	// OpenBrowser launches the system browser on the authorization URL
	// when the prompt completer is used.
	OpenBrowser bool `koanf:"open_browser"`

	// UserAgent is sent on the token exchange request.
	UserAgent string `koanf:"user_agent"`

	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// ServiceConfig configures the query service transport.
type ServiceConfig struct {
	// URL selects the wire by scheme: http/https for HTTP+JSON,
	// ws/wss for WebSocket+JSON.
	URL string `koanf:"url" validate:"required"`

	// AccessKey is sent with client registration.
	AccessKey string `koanf:"access_key"`

	// Platform is sent with client registration.
	// Default: catalogsync
	Platform string `koanf:"platform"`

	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// SyncConfig controls the card definition fetch.
type SyncConfig struct {
	// OutputDir is the root of all written files.
	OutputDir string `koanf:"output_dir" validate:"required"`

	// Category is the folder under OutputDir holding partitions and the
	// invalid key cache.
	// Default: card-definitions
	Category string `koanf:"category" validate:"required"`

	// UseInvalidKeyCache loads previously confirmed invalid keys at start.
	// Set to false to rebuild the cache from scratch.
	// Default: true
	UseInvalidKeyCache bool `koanf:"use_invalid_key_cache"`

	// ProbeDelay is the pause before each single-key probe.
	// Default: 350ms
	ProbeDelay time.Duration `koanf:"probe_delay" validate:"gte=0"`

	// Query is the name of the bulk card data query.
	Query string `koanf:"query" validate:"required"`

	// RecordIDField is the record field used as the output file name.
	// Default: cardSourceID
	RecordIDField string `koanf:"record_id_field" validate:"required"`

	// DateField is the record field subject to release date normalization.
	// Default: releaseDate
	DateField string `koanf:"date_field"`

	// Partitions restricts the run to the named partitions. Empty means all.
	Partitions []string `koanf:"partitions"`

	// Quiet disables progress reporting.
	Quiet bool `koanf:"quiet"`
}

// DocumentsConfig controls the single-document fetchers.
type DocumentsConfig struct {
	// Locale is substituted for the {0} placeholder of card database names.
	// Default: en
	Locale string `koanf:"locale" validate:"required"`

	// AISamples is how many AI customization responses to capture.
	// Default: 5
	AISamples int `koanf:"ai_samples" validate:"gte=1"`
}

// JournalConfig configures the per-partition run journal.
type JournalConfig struct {
	// Enabled records every completed partition in a badger store.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// Path overrides the journal location.
	// Default: <output_dir>/.catalogsync-journal
	Path string `koanf:"path"`
}

// MetricsConfig configures the prometheus textfile export.
type MetricsConfig struct {
	// TextfilePath, when set, receives the run's metrics in the text
	// exposition format once the run ends (node_exporter textfile collector).
	TextfilePath string `koanf:"textfile_path"`
}

// LoggingConfig holds logging configuration, applied to internal/logging at startup.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"loglevel"`

	// Format is the output format: json or console.
	// Default: console
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// CategoryDir returns <output_dir>/<category>.
func (c *Config) CategoryDir() string {
	return filepath.Join(c.Sync.OutputDir, c.Sync.Category)
}

// InvalidKeyCachePath returns the location of the invalid key cache file.
func (c *Config) InvalidKeyCachePath() string {
	return filepath.Join(c.CategoryDir(), InvalidKeyCacheFile)
}

// JournalPath returns the badger directory of the run journal.
func (c *Config) JournalPath() string {
	if c.Journal.Path != "" {
		return c.Journal.Path
	}
	return filepath.Join(c.Sync.OutputDir, JournalDirName)
}

const (
	// InvalidKeyCacheFile is the file name of the invalid key cache.
	InvalidKeyCacheFile = "invalid-card-ids.txt"

	// JournalDirName is the default journal directory under the output root.
	JournalDirName = ".catalogsync-journal"
)
