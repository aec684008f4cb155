package pipeline

import (
	"locationmapper/internal/runner"
)

// Stage is one external invocation within a plan.
type Stage struct {
	// Name identifies the stage in logs and history (e.g. "clean").
	Name string
	// Label prefixes the timing line, e.g. "Cleaning" prints "Cleaning took: 12ms".
	Label   string
	Command runner.Command
	// SkipNotice, when set, is printed instead of running the stage.
	SkipNotice string
}

// Skipped reports whether the stage is a placeholder for a step that will not run.
func (s Stage) Skipped() bool {
	return s.SkipNotice != ""
}

// Plan is a fixed sequence of stages for one subcommand.
type Plan struct {
	// Name is the subcommand that produced the plan.
	Name   string
	Stages []Stage
	// Timed plans print per-stage durations and a closing total.
	Timed bool
	// Setup runs before the first stage; an error aborts the plan before any
	// external tool is launched.
	Setup func() error
	// TempFiles are removed best-effort after the last stage.
	TempFiles []string
}

// StageNames lists the stage names in execution order.
func (p Plan) StageNames() []string {
	names := make([]string, 0, len(p.Stages))
	for _, s := range p.Stages {
		names = append(names, s.Name)
	}
	return names
}
