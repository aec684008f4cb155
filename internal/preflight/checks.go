package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"locationmapper/internal/config"
	"locationmapper/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the binaries and helper files the pipelines
// invoke. Binaries come first, then files in pipeline order. Descriptions
// name the subcommands that need each dependency.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	binaries := []deps.Requirement{
		{
			Name:        "Node.js",
			Command:     cfg.Tools.Node,
			Description: "gpx, gpxToCss",
		},
		{
			Name:        "npx",
			Command:     cfg.Tools.Npx,
			Description: "every pipeline",
		},
		{
			Name:        "Java",
			Command:     cfg.Tools.Java,
			Description: "gpx, gpxToCss",
		},
	}
	files := []deps.Requirement{
		{Name: "Clean script", Command: cfg.Tools.CleanScript, Description: "gpx, gpxToCss"},
		{Name: "Mapping template", Command: cfg.Mapping.Template, Description: "gpx, gpxToCss"},
		{Name: "RMLMapper jar", Command: cfg.Tools.RMLMapperJar, Description: "gpx, gpxToCss"},
		{Name: "Event source script", Command: cfg.Tools.EventSourceScript, Description: "gpx publishing", Optional: true},
		{Name: "Container script", Command: cfg.Tools.ContainerScript, Description: "container", Optional: true},
		{Name: "CSS script", Command: cfg.Tools.CSSScript, Description: "css, gpxToCss", Optional: true},
		{Name: "Linestring script", Command: cfg.Tools.LinestringScript, Description: "linestr", Optional: true},
		{Name: "Login script", Command: cfg.Tools.LoginScript, Description: "login", Optional: true},
	}

	statuses := deps.CheckBinaries(binaries)
	return append(statuses, deps.CheckFiles(cfg.Paths.WorkDir, files)...)
}
