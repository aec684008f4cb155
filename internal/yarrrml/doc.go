// Package yarrrml turns the YARRRML track-points template into the mapping
// definition for one recording.
//
// The template carries literal placeholder tokens (PERSONURL, TRANSPORTMODE,
// DEVICEURL, SENSORURL, VERSIONURL). Substitution is plain text replacement in
// a fixed order: values are not escaped and are not checked for tokens of
// their own. When no transport mode is given the whole transport-mode line is
// dropped instead of being left with an empty object.
package yarrrml
