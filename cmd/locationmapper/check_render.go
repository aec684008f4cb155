package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"locationmapper/internal/deps"
	"locationmapper/internal/preflight"
)

// checkState classifies one line of the check report.
type checkState int

const (
	stateReady checkState = iota
	stateMissingBinary
	stateMissingFile
	stateOptionalMissing
	stateNoAccess
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const (
	checkTagWidth  = 11
	checkNameWidth = 20
)

func (s checkState) tag() string {
	switch s {
	case stateReady:
		return "ok"
	case stateMissingBinary:
		return "no binary"
	case stateMissingFile:
		return "no file"
	case stateOptionalMissing:
		return "optional"
	case stateNoAccess:
		return "no access"
	default:
		return "?"
	}
}

func (s checkState) color() string {
	switch s {
	case stateReady:
		return ansiGreen
	case stateOptionalMissing:
		return ansiYellow
	default:
		return ansiRed
	}
}

// blocking reports whether the state makes check exit non-zero.
func (s checkState) blocking() bool {
	return s != stateReady && s != stateOptionalMissing
}

// checkLine is one row of the check report.
type checkLine struct {
	state  checkState
	name   string
	detail string
}

func (l checkLine) render(colorize bool) string {
	tag := fmt.Sprintf("%-*s", checkTagWidth, "["+l.state.tag()+"]")
	if colorize {
		tag = l.state.color() + tag + ansiReset
	}
	return strings.TrimRight(fmt.Sprintf("  %s %-*s %s", tag, checkNameWidth, l.name, l.detail), " ")
}

// dependencyLine describes a binary or helper file: where it was found, or
// which subcommands cannot run without it.
func dependencyLine(dep deps.Status) checkLine {
	line := checkLine{name: dep.Name}
	if dep.Available {
		line.state = stateReady
		line.detail = dep.Command
		return line
	}

	detail := strings.TrimSpace(dep.Detail)
	if detail == "" {
		detail = "not available"
	}
	switch {
	case dep.Optional:
		line.state = stateOptionalMissing
		if dep.Description != "" {
			detail = fmt.Sprintf("%s; %s will fail", detail, dep.Description)
		}
	case dep.Kind == deps.KindBinary:
		line.state = stateMissingBinary
		if dep.Description != "" {
			detail = fmt.Sprintf("%s; install it to run %s", detail, dep.Description)
		}
	default:
		line.state = stateMissingFile
		if dep.Description != "" {
			detail = fmt.Sprintf("%s; required by %s", detail, dep.Description)
		}
	}
	line.detail = detail
	return line
}

func directoryLine(r preflight.Result) checkLine {
	state := stateReady
	if !r.Passed {
		state = stateNoAccess
	}
	return checkLine{state: state, name: r.Name, detail: r.Detail}
}

// checkReport groups the report lines under their headings.
type checkReport struct {
	dependencies []checkLine
	directories  []checkLine
}

func newCheckReport(statuses []deps.Status, dirs []preflight.Result) checkReport {
	var report checkReport
	for _, dep := range statuses {
		report.dependencies = append(report.dependencies, dependencyLine(dep))
	}
	for _, r := range dirs {
		report.directories = append(report.directories, directoryLine(r))
	}
	return report
}

// blockers returns the names of every line that fails the check.
func (r checkReport) blockers() []string {
	var names []string
	for _, group := range [][]checkLine{r.dependencies, r.directories} {
		for _, line := range group {
			if line.state.blocking() {
				names = append(names, line.name)
			}
		}
	}
	return names
}

func (r checkReport) write(w io.Writer, colorize bool) {
	heading := func(title string) {
		if colorize {
			title = ansiBold + title + ansiReset
		}
		fmt.Fprintln(w, title)
	}

	heading("Dependencies")
	for _, line := range r.dependencies {
		fmt.Fprintln(w, line.render(colorize))
	}
	fmt.Fprintln(w)
	heading("Directories")
	for _, line := range r.directories {
		fmt.Fprintln(w, line.render(colorize))
	}

	if blockers := r.blockers(); len(blockers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Not ready: %s\n", strings.Join(blockers, ", "))
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
