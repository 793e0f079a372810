// Package logging builds the process-wide structured logger.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text and console output formats
//   - A level that can be changed at runtime (config reload)
//   - Context-aware logging with run IDs and component names
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
//	slog.SetDefault(logger.Slog())
//
//	// Later, after the config file changed:
//	logger.SetLevel("debug")
//
//	// Attach a purge run ID to every record written with ctx
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "purge started")
//
// Packages do not depend on this one directly. They take
// slog.Default().With("component", "<name>") so that the handler installed
// here is the one they write through.
package logging
