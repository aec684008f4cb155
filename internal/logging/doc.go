// Package logging assembles the slog loggers used by the locationmapper CLI.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context helpers that tag log lines with the subcommand, run identifier, and
// pipeline stage. Logs are written to stderr; stdout is left to the stage
// timing lines and the output of the external tools.
package logging
