// Package config loads, normalizes, and validates locationmapper configuration.
//
// It supplies repository defaults (the script layout produced by the install
// script), expands user paths including tilde shortcuts, and reads TOML files
// from --config, ./locationmapper.toml, or ~/.config/locationmapper/config.toml.
//
// Always obtain settings through this package so the pipelines receive
// absolute working directories and clear validation errors.
package config
