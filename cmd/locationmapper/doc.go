// Package main hosts the locationmapper CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into pipeline plans
// that chain the external GPX cleaning, YARRRML, RMLMapper and Solid helper
// tools. It centralizes configuration resolution, logger setup, the working
// directory lock and run history so subcommands only describe their flags.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
