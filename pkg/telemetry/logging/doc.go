// Package logging builds the slog loggers used across schedconf.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//	logger.Info("configuration loaded", "path", path, "format", "flat")
//
// Components receive a *slog.Logger and add their own "component"
// attribute. Commands carry the logger in their context:
//
//	ctx = logging.WithLogger(ctx, logger)
//	logging.FromContext(ctx).Debug("reloading")
package logging
