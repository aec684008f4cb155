// Package runner launches the external tools (node, npx, java) that do the
// actual GPX cleaning, mapping, and publishing.
//
// Executor abstracts process execution so pipeline tests can record argument
// lists instead of spawning processes. The default implementation streams
// stdout and stderr line by line to caller-supplied callbacks, which keeps tool
// output interleaved with the CLI's own timing lines. Each tool gets its own
// process group so cancellation reaches the children npx starts.
package runner
