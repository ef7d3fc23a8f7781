// Package logging provides structured logging for the forcing tool on top of
// log/slog.
//
// Records carry the run context (run_id, config_path, mode, trigger) when the
// *Context methods are used, on Logger or on the *slog.Logger from Slog():
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "configuration resolved", "num_output_steps", 24)
//
// Packages that take a plain *slog.Logger receive Logger.Slog().
package logging
