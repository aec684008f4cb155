// Package pipeline chains the external mapping and publishing tools.
//
// A Plan is a fixed, ordered list of stages built from parsed command flags.
// Runner executes the stages strictly one after another, prints the wall-clock
// duration of each timed stage, and removes intermediate files when the plan
// finishes. A failed stage is logged and the next stage still runs unless the
// runner is configured to stop on errors; the tools historically signal
// problems in their own output rather than through exit codes.
//
// Lock guards the shared intermediate file names so two invocations in the
// same working directory cannot clobber each other.
package pipeline
