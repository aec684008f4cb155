// Package deps reports whether the external programs and helper scripts the
// pipelines invoke are present before a run is attempted.
package deps
