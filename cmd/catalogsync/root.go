// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/catalogsync/internal/config"
	"github.com/tomtom215/catalogsync/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// app holds the global flags and the process streams. Tests replace the
// streams.
type app struct {
	configPath string
	outputDir  string
	quiet      bool
	logLevel   string
	logFormat  string

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp() *app {
	return &app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogsync",
		Short: "Synchronize the game card catalog to local files",
		Long: `catalogsync downloads the partitioned card definition catalog and related
documents from the game's query service.

Keys the service refuses to deliver are remembered in
<output>/<category>/invalid-card-ids.txt and never requested again.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default: CONFIG_PATH or ./catalogsync.yaml)")
	flags.StringVarP(&a.outputDir, "output", "o", "", "output root directory")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only log warnings and errors, no progress bar")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: json or console")

	root.AddCommand(newFetchCommand(a), newStatusCommand(a))
	return root
}

// loadConfig layers the global flags over the loaded configuration and
// initializes logging. validate is false for commands that never contact the
// service.
func (a *app) loadConfig(cmd *cobra.Command, validate bool) (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Sync.OutputDir = a.outputDir
	}
	if flags.Changed("quiet") {
		cfg.Sync.Quiet = a.quiet
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if cfg.Sync.Quiet && quietRaisesLevel(cfg.Logging.Level) {
		cfg.Logging.Level = "warn"
	}

	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    a.errOut,
	})
	return cfg, nil
}

func quietRaisesLevel(level string) bool {
	switch level {
	case "", "trace", "debug", "info":
		return true
	}
	return false
}
