package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"locationmapper/internal/logging"
	"locationmapper/internal/runner"
)

// StageResult records the outcome of one stage.
type StageResult struct {
	Name     string
	Duration time.Duration
	// ExitCode is the process status; -1 when the process did not start or
	// was killed, 0 for skipped stages.
	ExitCode int
	Skipped  bool
	TimedOut bool
	Err      error
}

// Failed reports whether the stage ran and did not succeed.
func (r StageResult) Failed() bool {
	return !r.Skipped && r.Err != nil
}

// Result summarises a plan execution.
type Result struct {
	RunID   string
	Command string
	Started time.Time
	Total   time.Duration
	Stages  []StageResult
	// Aborted is set when remaining stages were not run.
	Aborted bool
}

// FailedStages returns the names of stages that ran and failed.
func (r Result) FailedStages() []string {
	var names []string
	for _, s := range r.Stages {
		if s.Failed() {
			names = append(names, s.Name)
		}
	}
	return names
}

// Option configures the runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec runner.Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithStopOnError aborts the plan at the first failed stage.
func WithStopOnError(stop bool) Option {
	return func(r *Runner) {
		r.stopOnError = stop
	}
}

// WithStageTimeout bounds every stage; zero leaves stages unbounded.
func WithStageTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		if timeout > 0 {
			r.stageTimeout = timeout
		}
	}
}

// Runner executes plans sequentially.
type Runner struct {
	stdout       io.Writer
	stderr       io.Writer
	logger       *slog.Logger
	exec         runner.Executor
	stopOnError  bool
	stageTimeout time.Duration
}

// NewRunner constructs a Runner writing timings and tool output to stdout and
// tool diagnostics to stderr.
func NewRunner(stdout, stderr io.Writer, logger *slog.Logger, opts ...Option) *Runner {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	r := &Runner{
		stdout: stdout,
		stderr: stderr,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		exec:   runner.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes plan. Stage failures are returned only when the runner stops
// on errors or the context is cancelled; otherwise they are logged and
// reported through Result. Intermediate files are removed whenever at least
// one stage was attempted.
func (r *Runner) Run(ctx context.Context, plan Plan) (Result, error) {
	result := Result{
		RunID:   uuid.NewString(),
		Command: plan.Name,
		Started: time.Now().UTC(),
	}
	ctx = logging.WithCommand(logging.WithRunID(ctx, result.RunID), plan.Name)
	logger := logging.WithContext(ctx, r.logger)

	if plan.Setup != nil {
		if err := plan.Setup(); err != nil {
			return result, Wrap(ErrConfiguration, plan.Name, "setup", "", err)
		}
	}

	logger.Debug("plan started", logging.Strings("stages", plan.StageNames()))

	start := time.Now()
	var runErr error
	for i, stage := range plan.Stages {
		if stage.Skipped() {
			fmt.Fprintln(r.stdout, stage.SkipNotice)
			logger.Info("stage skipped", logging.String(logging.FieldStage, stage.Name))
			result.Stages = append(result.Stages, StageResult{Name: stage.Name, Skipped: true})
			continue
		}

		stageResult := r.runStage(ctx, stage)
		result.Stages = append(result.Stages, stageResult)
		if plan.Timed {
			fmt.Fprintf(r.stdout, "%s took: %dms\n", stage.Label, roundMillis(stageResult.Duration))
		}
		if stageResult.Err == nil {
			continue
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			runErr = ctxErr
		} else if r.stopOnError {
			marker := ErrExternalTool
			if stageResult.TimedOut {
				marker = ErrTimeout
			}
			runErr = Wrap(marker, stage.Name, "run", stage.Label+" failed", stageResult.Err)
		}
		if runErr != nil {
			result.Aborted = i < len(plan.Stages)-1
			break
		}
	}
	result.Total = time.Since(start)
	if plan.Timed {
		fmt.Fprintf(r.stdout, "Total time: %dms\n", roundMillis(result.Total))
	}

	for _, failure := range RemoveTempFiles(r.stdout, plan.TempFiles) {
		logger.Debug("temporary file not removed", logging.Error(failure))
	}

	logger.Info("plan finished",
		logging.Duration("total", result.Total),
		logging.Int("stages", len(result.Stages)),
		logging.Strings("failed_stages", result.FailedStages()),
		logging.Bool("aborted", result.Aborted),
	)
	return result, runErr
}

var eventStageFailure = logging.Event{
	Type:   "stage_failure",
	Hint:   "check the tool output above",
	Impact: "later stages may run on missing or stale files",
}

func (r *Runner) runStage(ctx context.Context, stage Stage) StageResult {
	stageCtx := logging.WithStage(ctx, stage.Name)
	logger := logging.WithContext(stageCtx, r.logger)

	runCtx := stageCtx
	if r.stageTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(stageCtx, r.stageTimeout)
		defer cancel()
	}

	logger.Debug("stage started", logging.String("argv", stage.Command.String()))
	started := time.Now()
	err := r.exec.Run(runCtx, stage.Command, runner.LineWriter(r.stdout), runner.LineWriter(r.stderr))
	res := StageResult{
		Name:     stage.Name,
		Duration: time.Since(started),
		ExitCode: runner.ExitCode(err),
		Err:      err,
	}

	if err != nil {
		hint := eventStageFailure.Hint
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			res.TimedOut = true
			hint = "raise pipeline.stage_timeout_seconds or set it to 0"
		}
		logging.Warn(logger, eventStageFailure, "stage failed",
			logging.String("argv", stage.Command.String()),
			logging.Int("exit_code", res.ExitCode),
			logging.Duration("duration", res.Duration),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hint),
		)
		return res
	}
	logger.Debug("stage completed", logging.Duration("duration", res.Duration))
	return res
}

// roundMillis converts d to whole milliseconds, rounding halves to even.
func roundMillis(d time.Duration) int64 {
	return int64(math.RoundToEven(float64(d.Nanoseconds()) / float64(time.Millisecond)))
}
