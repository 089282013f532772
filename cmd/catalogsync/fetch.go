// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/catalogsync/internal/auth"
	"github.com/tomtom215/catalogsync/internal/catalog"
	"github.com/tomtom215/catalogsync/internal/config"
	"github.com/tomtom215/catalogsync/internal/documents"
	"github.com/tomtom215/catalogsync/internal/journal"
	"github.com/tomtom215/catalogsync/internal/logging"
	"github.com/tomtom215/catalogsync/internal/metrics"
	"github.com/tomtom215/catalogsync/internal/session"
	"github.com/tomtom215/catalogsync/internal/transport"
)

// errNothingToFetch is returned when fetch is run without a selection.
var errNothingToFetch = errors.New("nothing to fetch: pass --card-definitions, a document flag or --all-documents")

type fetchOptions struct {
	cardDefinitions bool
	ignoreCache     bool
	partitions      []string
	callbackURL     string
	openBrowser     bool
	allDocuments    bool
	// jobs maps document job names to their flag values.
	jobs map[string]*bool
}

// selectedJobs returns the document jobs to run, in documents.Jobs order.
func (o *fetchOptions) selectedJobs() []string {
	var jobs []string
	for _, job := range documents.Jobs {
		if o.allDocuments || (o.jobs[job] != nil && *o.jobs[job]) {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

func newFetchCommand(a *app) *cobra.Command {
	opts := &fetchOptions{jobs: make(map[string]*bool)}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Log in and download the selected data sets",
		Example: `  catalogsync fetch --card-definitions
  catalogsync fetch --card-definitions --ignore-invalid-ids-file
  catalogsync fetch --card-databases --deck-validation -o ./data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !opts.cardDefinitions && len(opts.selectedJobs()) == 0 {
				_ = cmd.Usage()
				return errNothingToFetch
			}
			cfg, err := a.loadConfig(cmd, false)
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return a.runFetch(cmd.Context(), cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.cardDefinitions, "card-definitions", false, "sync the card definition catalog")
	flags.BoolVar(&opts.ignoreCache, "ignore-invalid-ids-file", false, "do not load the invalid key cache; every key is requested again")
	flags.StringSliceVar(&opts.partitions, "partitions", nil, "only sync these partitions (comma separated)")
	flags.StringVar(&opts.callbackURL, "callback-url", "", "complete the login with this redirect URL instead of prompting")
	flags.BoolVar(&opts.openBrowser, "open-browser", false, "open the authorization URL in the system browser")
	flags.BoolVar(&opts.allDocuments, "all-documents", false, "run every document job")

	jobHelp := map[string]string{
		documents.JobItemDatabase:     "download the item set database",
		documents.JobCardActions:      "download the card actions table",
		documents.JobCardDatabases:    "download every card database table",
		documents.JobDeckValidation:   "download the deck validation rules",
		documents.JobFeatureFlags:     "download the feature flags",
		documents.JobQuests:           "capture the current quest setup",
		documents.JobAICustomizations: "capture AI customization samples",
	}
	for _, job := range documents.Jobs {
		opts.jobs[job] = flags.Bool(job, false, jobHelp[job])
	}
	return cmd
}

// apply layers the fetch flags over cfg.
func (o *fetchOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if o.ignoreCache {
		cfg.Sync.UseInvalidKeyCache = false
	}
	if flags.Changed("partitions") {
		cfg.Sync.Partitions = o.partitions
	}
	if flags.Changed("callback-url") {
		cfg.Identity.CallbackURL = o.callbackURL
	}
	if flags.Changed("open-browser") {
		cfg.Identity.OpenBrowser = o.openBrowser
	}
}

// runFetch wraps fetch with the run ID, run metrics and the textfile export.
func (a *app) runFetch(ctx context.Context, cfg *config.Config, opts *fetchOptions) error {
	ctx = logging.ContextWithRunID(ctx, logging.GenerateRunID())
	start := time.Now()

	err := a.fetch(ctx, cfg, opts)
	metrics.RecordSyncRun(time.Since(start), errorType(err), err)

	if path := cfg.Metrics.TextfilePath; path != "" {
		if werr := metrics.WriteTextfile(path); werr != nil {
			logging.Ctx(ctx).Warn().Err(werr).Str("path", path).Msg("Failed to write metrics textfile")
		}
	}
	return err
}

func (a *app) fetch(ctx context.Context, cfg *config.Config, opts *fetchOptions) error {
	log := logging.Ctx(ctx)

	cred, err := a.acquirer(cfg).Acquire(ctx)
	if err != nil {
		return err
	}

	client, err := transport.Dial(ctx, transport.Config{
		URL:       cfg.Service.URL,
		Timeout:   cfg.Service.Timeout,
		UserAgent: cfg.Identity.UserAgent,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", session.ErrSessionEstablishment, err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("Closing transport")
		}
	}()

	handle, err := session.NewEstablisher(client, cfg.Service.Platform, cfg.Service.AccessKey).Establish(ctx, cred)
	if err != nil {
		return err
	}

	if opts.cardDefinitions {
		if err := a.syncCatalog(ctx, cfg, handle); err != nil {
			return err
		}
	}

	jobs := opts.selectedJobs()
	if len(jobs) == 0 {
		return nil
	}
	results, err := documents.New(handle, documents.Options{
		Root:                cfg.Sync.OutputDir,
		DefinitionsCategory: cfg.Sync.Category,
		Locale:              cfg.Documents.Locale,
		AISamples:           cfg.Documents.AISamples,
	}).RunAll(ctx, jobs)
	if !cfg.Sync.Quiet {
		for _, r := range results {
			fmt.Fprintf(a.out, "%-18s %d file(s)\n", r.Job, len(r.Files))
		}
	}
	return err
}

func (a *app) acquirer(cfg *config.Config) *auth.Acquirer {
	var completer auth.AuthorizationCompleter
	if cfg.Identity.CallbackURL != "" {
		completer = auth.StaticCompleter{CallbackURL: cfg.Identity.CallbackURL}
	} else {
		completer = auth.NewPromptCompleter(a.in, a.errOut, cfg.Identity.OpenBrowser)
	}

	return auth.NewAcquirer(auth.ClientDescriptor{
		AuthorizeURL: cfg.Identity.AuthorizeURL,
		TokenURL:     cfg.Identity.TokenURL,
		ClientID:     cfg.Identity.ClientID,
		RedirectURI:  cfg.Identity.RedirectURI,
		Scopes:       cfg.Identity.Scopes,
		Audience:     cfg.Identity.Audience,
		Locale:       cfg.Identity.Locale,
		UserAgent:    cfg.Identity.UserAgent,
	}, completer, &http.Client{Timeout: cfg.Identity.Timeout})
}

func (a *app) syncCatalog(ctx context.Context, cfg *config.Config, client transport.Client) error {
	log := logging.Ctx(ctx)

	opts := catalog.Options{
		Dir:                cfg.CategoryDir(),
		Category:           cfg.Sync.Category,
		UseInvalidKeyCache: cfg.Sync.UseInvalidKeyCache,
		Query:              cfg.Sync.Query,
		IDField:            cfg.Sync.RecordIDField,
		DateField:          cfg.Sync.DateField,
		Partitions:         cfg.Sync.Partitions,
		Pacer:              catalog.NewRatePacer(cfg.Sync.ProbeDelay),
		Progress:           newProgress(a.errOut, cfg.Sync.Quiet),
	}

	if cfg.Journal.Enabled {
		store, err := journal.Open(cfg.JournalPath())
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.JournalPath()).Msg("Journal unavailable, continuing without it")
		} else {
			defer func() {
				if cerr := store.Close(); cerr != nil {
					log.Warn().Err(cerr).Msg("Closing journal")
				}
			}()
			opts.Journal = store
		}
	}

	sum, err := catalog.NewSyncer(client, opts).Run(ctx)
	if sum != nil && !cfg.Sync.Quiet {
		printSummary(a.out, sum)
	}
	return err
}

// errorType labels a run failure for the sync_errors metric.
func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, auth.ErrAuthenticationFailure):
		return "authentication"
	case errors.Is(err, session.ErrSessionEstablishment):
		return "session"
	case errors.Is(err, catalog.ErrStorage):
		return "storage"
	case errors.Is(err, catalog.ErrUnexpectedService), errors.Is(err, catalog.ErrManifest):
		return "service"
	default:
		return "other"
	}
}
