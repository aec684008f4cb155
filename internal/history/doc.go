// Package history persists a record of every pipeline run in SQLite.
//
// Each run stores its subcommand, start time, total duration, and the outcome
// of every stage, including exit codes the pipeline otherwise tolerates. The
// `history` command reads the most recent runs back for display. Recording is
// auxiliary: callers log and ignore failures so a broken database never blocks
// a mapping run.
package history
