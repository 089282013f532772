// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used. Entries starting with ~ are expanded to the home directory.
var DefaultConfigPaths = []string{
	"catalogsync.yaml",
	"catalogsync.yml",
	"~/.config/catalogsync/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Identity: IdentityConfig{
			AuthorizeURL: "https://access.pokemon.com/oauth2/auth",
			TokenURL:     "https://access.pokemon.com/oauth2/token",
			ClientID:     "tpci-tcg-app",
			RedirectURI:  "https://tpcitcgapp/callback",
			Scopes:       []string{"offline", "screen_name", "openid", "friends"},
			Audience:     "https://op-core.pokemon.com https://api.friends.pokemon.com",
			Locale:       "en",
			OpenBrowser:  false,
			UserAgent:    "catalogsync",
			Timeout:      30 * time.Second,
		},
		Service: ServiceConfig{
			URL:      "",
			Platform: "catalogsync",
			Timeout:  60 * time.Second,
		},
		Sync: SyncConfig{
			OutputDir:          "output",
			Category:           "card-definitions",
			UseInvalidKeyCache: true,
			ProbeDelay:         350 * time.Millisecond,
			Query:              "card-get-carddata",
			RecordIDField:      "cardSourceID",
			DateField:          "releaseDate",
			Partitions:         []string{},
		},
		Documents: DocumentsConfig{
			Locale:    "en",
			AISamples: 5,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (explicit path, CONFIG_PATH, or a default path)
//  3. Environment Variables: Override any mapped setting
//
// CLI flags are applied on top by the command, which then calls Validate.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional unless given explicitly)
	configPath := path
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	} else {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables
	// CATALOGSYNC_SERVICE_URL -> service.url
	// LOG_LEVEL -> logging.level
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		path = expandHome(path)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"identity.scopes",
	"sync.partitions",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		if err := k.Set(path, splitList(strVal)); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// splitList splits on commas and whitespace, dropping empty entries.
// Scopes are conventionally space separated, partitions comma separated.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped so the process environment
// cannot pollute the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Identity provider
		"catalogsync_authorize_url": "identity.authorize_url",
		"catalogsync_token_url":     "identity.token_url",
		"catalogsync_client_id":     "identity.client_id",
		"catalogsync_redirect_uri":  "identity.redirect_uri",
		"catalogsync_scopes":        "identity.scopes",
		"catalogsync_audience":      "identity.audience",
		"catalogsync_locale":        "identity.locale",
		"catalogsync_callback_url":  "identity.callback_url",
		"catalogsync_open_browser":  "identity.open_browser",
		"catalogsync_user_agent":    "identity.user_agent",
		"catalogsync_auth_timeout":  "identity.timeout",

		// Query service
		"catalogsync_service_url":     "service.url",
		"catalogsync_access_key":      "service.access_key",
		"catalogsync_platform":        "service.platform",
		"catalogsync_service_timeout": "service.timeout",

		// Card definition sync
		"catalogsync_output_dir":            "sync.output_dir",
		"catalogsync_category":              "sync.category",
		"catalogsync_use_invalid_key_cache": "sync.use_invalid_key_cache",
		"catalogsync_probe_delay":           "sync.probe_delay",
		"catalogsync_query":                 "sync.query",
		"catalogsync_record_id_field":       "sync.record_id_field",
		"catalogsync_date_field":            "sync.date_field",
		"catalogsync_partitions":            "sync.partitions",
		"catalogsync_quiet":                 "sync.quiet",

		// Documents
		"catalogsync_document_locale": "documents.locale",
		"catalogsync_ai_samples":      "documents.ai_samples",

		// Journal
		"catalogsync_journal_enabled": "journal.enabled",
		"catalogsync_journal_path":    "journal.path",

		// Metrics
		"catalogsync_metrics_textfile": "metrics.textfile_path",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
