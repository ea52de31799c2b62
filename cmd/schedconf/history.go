package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pytroll-hq/schedconf/pkg/cli"
	"pytroll-hq/schedconf/pkg/history"
	"pytroll-hq/schedconf/pkg/telemetry/logging"
	"pytroll-hq/schedconf/pkg/watch"
)

var historyFlags struct {
	db       string
	format   string
	limit    int
	since    time.Duration
	failures bool
	prune    bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded configuration reloads",
	Long: `List the reload attempts a watch command recorded in its history database,
newest first.

Examples:
  # Last 20 reloads
  schedconf history --db reloads.db

  # Failed reloads of the last day, as JSON
  schedconf history --db reloads.db --failures --since 24h -f json

  # Apply the retention limits now
  schedconf history --db reloads.db --prune`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFlags.db, "db", "", "SQLite database of the reload history")
	historyCmd.Flags().StringVarP(&historyFlags.format, "format", "f", "text", "output format: yaml, json, text")
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of reloads to list")
	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only list reloads of this last period")
	historyCmd.Flags().BoolVar(&historyFlags.failures, "failures", false, "only list failed reloads")
	historyCmd.Flags().BoolVar(&historyFlags.prune, "prune", false, "delete reloads beyond the retention limits before listing")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db := settings.HistoryDB
	if cmd.Flags().Changed("db") {
		db = historyFlags.db
	}
	if db == "" {
		return cli.NewConfigError("db", "no history database given (use --db or SCHEDCONF_HISTORY_DB)")
	}
	format, err := cli.ParseOutputFormat(historyFlags.format)
	if err != nil {
		return err
	}

	logger := logging.FromContext(cmd.Context())
	store, err := history.NewSQLiteStore(history.DefaultSQLiteConfig(db), logger)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer store.Close()

	if historyFlags.prune {
		pruner := history.NewPruner(store, history.RetentionConfig{
			MaxAge:     settings.HistoryMaxAge,
			MaxRecords: settings.HistoryMaxRecords,
		}, logger)
		if _, err := pruner.Prune(cmd.Context()); err != nil {
			return cli.NewCommandError("history", err)
		}
	}

	query := &history.Query{Limit: historyFlags.limit, FailuresOnly: historyFlags.failures}
	if historyFlags.since > 0 {
		query.Since = time.Now().Add(-historyFlags.since)
	}
	return listHistory(cmd.Context(), cmd.OutOrStdout(), store, query, format)
}

// listHistory writes the records matching query to w.
func listHistory(ctx context.Context, w io.Writer, store history.Store, query *history.Query, format cli.OutputFormat) error {
	records, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if format != cli.FormatText {
		return cli.NewFormatter(format).FormatTo(w, records)
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no reloads recorded")
		return err
	}
	for _, r := range records {
		status := "✓"
		detail := fmt.Sprintf("%s, %d stations, generation %d", r.Format, r.Stations, r.Generation)
		if r.Failed() {
			status = "✗"
			detail = r.Error
		}
		if _, err := fmt.Fprintf(w, "%s %s %s (%s): %s\n",
			status, r.Started.Format(time.RFC3339), r.Trigger, r.Duration.Round(time.Millisecond), detail); err != nil {
			return err
		}
	}
	return nil
}

// openHistory opens the SQLite history at path, or an in-memory history
// when path is empty.
func openHistory(path string, logger *slog.Logger) (history.Store, error) {
	if path == "" {
		return history.NewMemoryStore(), nil
	}
	return history.NewSQLiteStore(history.DefaultSQLiteConfig(path), logger)
}

// recordReload stores every reload event in store. Storage failures are
// logged and do not affect the reload.
func recordReload(store history.Store, logger *slog.Logger) func(watch.Event) {
	return func(ev watch.Event) {
		r := &history.Record{
			ID:         uuid.NewString(),
			Trigger:    ev.Trigger,
			Paths:      ev.Paths,
			Started:    ev.Started,
			Duration:   ev.Duration,
			Format:     string(ev.Format),
			Stations:   ev.Stations,
			Generation: ev.Generation,
		}
		if ev.Err != nil {
			r.Error = ev.Err.Error()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Store(ctx, r); err != nil {
			logger.Warn("failed to record reload", "trigger", ev.Trigger, "error", err)
		}
	}
}

// historyHandler serves recent reloads as JSON. The limit and failures
// query parameters narrow the result.
func historyHandler(store history.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := &history.Query{Limit: 50}
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			query.Limit = n
		}
		query.FailuresOnly = r.URL.Query().Get("failures") == "true"

		records, err := store.Query(r.Context(), query)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records)
	})
}
