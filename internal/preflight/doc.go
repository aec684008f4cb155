// Package preflight provides readiness checks for the directories and
// external tools locationmapper depends on.
//
// These checks run in two contexts:
//   - The pipeline commands call RunAll before launching the first stage and
//     log a warning for each failed check; the run still proceeds.
//   - The CLI "locationmapper check" command renders RunAll and
//     CheckSystemDeps as a status report.
package preflight
