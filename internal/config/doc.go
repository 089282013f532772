// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

/*
Package config provides layered configuration for catalogsync.

# Configuration Sources

Sources are applied in order, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. YAML file: --config, CONFIG_PATH, ./catalogsync.yaml, ./catalogsync.yml,
    ~/.config/catalogsync/config.yaml
 3. Environment variables (explicit mapping table, see envTransformFunc)
 4. CLI flags (applied by cmd/catalogsync before Validate)

# Sections

  - identity: OAuth2/PKCE client (authorize and token endpoints, client id,
    redirect URI, scopes, audience, locale, pre-supplied callback URL)
  - service: query service URL (http/https or ws/wss), access key, platform
  - sync: output root, category, invalid key cache toggle, probe delay,
    query name, record id field, date field, partition filter
  - documents: locale for card databases, AI customization sample count
  - journal: badger-backed run journal
  - metrics: prometheus textfile export path
  - logging: level, format, caller

# Environment Variables

	CATALOGSYNC_SERVICE_URL        service.url (required)
	CATALOGSYNC_ACCESS_KEY         service.access_key
	CATALOGSYNC_CALLBACK_URL       identity.callback_url
	CATALOGSYNC_OUTPUT_DIR         sync.output_dir (default: output)
	CATALOGSYNC_PROBE_DELAY        sync.probe_delay (default: 350ms)
	CATALOGSYNC_PARTITIONS         sync.partitions (comma separated)
	CATALOGSYNC_SCOPES             identity.scopes (space or comma separated)
	CATALOGSYNC_METRICS_TEXTFILE   metrics.textfile_path
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Unmapped variables are ignored.

# Example

	service:
	  url: wss://query.example.net/v1/socket
	  access_key: 0123456789abcdef
	sync:
	  output_dir: /srv/catalog
	  probe_delay: 500ms
	logging:
	  level: debug
*/
package config
