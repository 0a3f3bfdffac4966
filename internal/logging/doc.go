// Package logging provides structured logging for the lspinstall CLI using slog.
//
// Text output goes through [Handler], which colors levels and keys when the
// writer is a terminal. JSON output uses the standard library handler. The
// root command tees both to a --log-file with [MultiHandler].
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(2),
//		Format: logging.FormatText,
//	})
//	logger.Debug("scanning client module", "file", path)
//
// Tests use [ForTest] so log lines are attached to the test output.
package logging
