// Package watch keeps a configuration up to date while a scheduler runs.
//
// A Reloader owns the latest successfully loaded configuration. Reloads
// are triggered by a FileWatcher when one of the configuration files
// changes, or by a Scheduler on a cron schedule:
//
//	loader := config.NewLoader(config.WithLogger(logger))
//	reloader := watch.NewReloader(paths, loader.Read, collector, logger)
//	if err := reloader.Reload(watch.TriggerStartup); err != nil {
//	    return err
//	}
//
//	fw, err := watch.NewFileWatcher(&watch.FileWatcherConfig{Paths: paths}, logger)
//	go fw.Watch(ctx, func() error { return reloader.Reload(watch.TriggerFile) })
//
//	sched := watch.NewScheduler("@every 10m", reloader, logger)
//	sched.Start(ctx)
//
// A failed reload keeps the previous configuration. Reloads are serialized;
// the loaders themselves remain single-threaded.
package watch
