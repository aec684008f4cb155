package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Requirement defines an external program or helper file locationmapper relies on.
type Requirement struct {
	Name string
	// Command is a binary name resolved through PATH, or a file path for
	// CheckFiles.
	Command     string
	Description string
	Optional    bool
}

// Kind tells binaries resolved through PATH apart from helper files.
type Kind int

const (
	KindBinary Kind = iota
	KindFile
)

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Kind        Kind
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := newStatus(req)
		if status.Command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(status.Command); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", status.Command)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckFiles reports whether each helper file exists. Relative paths are
// resolved against baseDir, the directory the external tools run in.
func CheckFiles(baseDir string, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := newStatus(req)
		status.Kind = KindFile
		if status.Command == "" {
			status.Detail = "path not configured"
			results = append(results, status)
			continue
		}
		path := status.Command
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		info, err := os.Stat(path)
		switch {
		case err != nil:
			status.Detail = fmt.Sprintf("file %q not found", path)
		case info.IsDir():
			status.Detail = fmt.Sprintf("%q is a directory", path)
		default:
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}

// Missing returns the names of required dependencies that are unavailable.
func Missing(statuses []Status) []string {
	var names []string
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			names = append(names, s.Name)
		}
	}
	return names
}

func newStatus(req Requirement) Status {
	return Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
}
