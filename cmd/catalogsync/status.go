// Catalogsync - Game Catalog Synchronization Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogsync

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/catalogsync/internal/catalog"
	"github.com/tomtom215/catalogsync/internal/journal"
)

// errNoJournal is returned by status when no run has been journaled.
var errNoJournal = errors.New("no journal found")

func newStatusCommand(a *app) *cobra.Command {
	var (
		partition string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the last synchronization of every partition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd, false)
			if err != nil {
				return err
			}

			path := cfg.JournalPath()
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("%w at %s: %w", errNoJournal, path, err)
			}
			store, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			var entries []journal.Entry
			if partition != "" {
				entries, err = store.History(ctx, partition, limit)
			} else {
				entries, err = store.LatestAll(ctx)
			}
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(a.out, "No runs recorded.")
				return nil
			}
			return printEntries(a.out, entries)
		},
	}

	cmd.Flags().StringVarP(&partition, "partition", "p", "", "show the run history of one partition")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "history entries to show with --partition (0 for all)")
	return cmd
}

func printEntries(w io.Writer, entries []journal.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PARTITION\tMODE\tREQUESTED\tRETRIEVED\tWRITTEN\tNEW INVALID\tRUN\tCOMPLETED\tNOTE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
			e.Partition, e.Mode, e.Requested, e.Retrieved, e.Written, e.NewInvalid,
			e.RunID, e.CompletedAt.Local().Format(time.DateTime), e.Anomaly)
	}
	return tw.Flush()
}

// printSummary writes the end-of-run totals of a card definition sync.
func printSummary(w io.Writer, sum *catalog.Summary) {
	fmt.Fprintf(w, "Partitions: %d  Retrieved: %d  Written: %d  Skipped: %d\n",
		sum.Partitions, sum.Retrieved, sum.Written, sum.Skipped)
	fmt.Fprintf(w, "Invalid keys: %d new, %d known\n", sum.NewInvalid, sum.InvalidKeys)

	outcomes := make([]string, 0, len(sum.Outcomes))
	for o := range sum.Outcomes {
		outcomes = append(outcomes, string(o))
	}
	sort.Strings(outcomes)
	for _, o := range outcomes {
		fmt.Fprintf(w, "  %-8s %d\n", o, sum.Outcomes[catalog.Outcome(o)])
	}
}
