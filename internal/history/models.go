package history

import (
	"time"

	"locationmapper/internal/pipeline"
)

// Status summarises how a run ended.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusAborted Status = "aborted"
)

// StageRecord is the persisted outcome of one stage.
type StageRecord struct {
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	ExitCode   int    `json:"exit_code"`
	Skipped    bool   `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Run is one recorded pipeline invocation.
type Run struct {
	ID        string
	Command   string
	Status    Status
	StartedAt time.Time
	Total     time.Duration
	Stages    []StageRecord
}

// FromResult converts a pipeline result into a Run.
func FromResult(res pipeline.Result) Run {
	run := Run{
		ID:        res.RunID,
		Command:   res.Command,
		Status:    StatusOK,
		StartedAt: res.Started,
		Total:     res.Total,
		Stages:    make([]StageRecord, 0, len(res.Stages)),
	}
	for _, s := range res.Stages {
		rec := StageRecord{
			Name:       s.Name,
			DurationMS: s.Duration.Milliseconds(),
			ExitCode:   s.ExitCode,
			Skipped:    s.Skipped,
		}
		if s.Err != nil {
			rec.Error = s.Err.Error()
		}
		run.Stages = append(run.Stages, rec)
	}
	switch {
	case res.Aborted:
		run.Status = StatusAborted
	case len(res.FailedStages()) > 0:
		run.Status = StatusFailed
	}
	return run
}
