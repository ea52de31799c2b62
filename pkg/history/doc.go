// Package history records configuration reload attempts.
//
// Each reload of the watch command becomes a Record: what triggered it,
// which files were read, how long it took, and either the resulting format
// and station count or the error. Records go to a Store, an SQLite database
// (pure Go driver) or an in-memory store when no database is configured.
//
//	store, err := history.NewSQLiteStore(history.DefaultSQLiteConfig("reloads.db"), logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	failures, err := store.Query(ctx, &history.Query{FailuresOnly: true, Limit: 20})
//
// # Retention
//
// A Pruner bounds the history by age and by record count, either on demand
// or on a cron schedule:
//
//	pruner := history.NewPruner(store, history.RetentionConfig{
//	    MaxAge:     30 * 24 * time.Hour,
//	    MaxRecords: 10000,
//	    Schedule:   "@hourly",
//	}, logger)
//	if err := pruner.Start(ctx); err != nil {
//	    return err
//	}
package history
