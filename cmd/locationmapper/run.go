package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"locationmapper/internal/config"
	"locationmapper/internal/history"
	"locationmapper/internal/logging"
	"locationmapper/internal/pipeline"
	"locationmapper/internal/preflight"
)

// planBuilder defers plan construction until config and logger are loaded.
type planBuilder func(cfg *config.Config, logger *slog.Logger) pipeline.Plan

// runPlan executes one pipeline plan for cmd. Stage failures are reported by
// the runner and do not fail the command unless pipeline.stop_on_error is set.
var (
	eventPreflight = logging.Event{
		Type:   "preflight",
		Hint:   "run locationmapper check",
		Impact: "external tools may fail to read or write their files",
	}
	eventHistory = logging.Event{
		Type:   "history",
		Hint:   "check that paths.state_dir is writable",
		Impact: "this run will not appear in locationmapper history",
	}
)

func runPlan(cmd *cobra.Command, ctx *commandContext, build planBuilder) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	plan := build(cfg, logger)
	cliLogger := logging.NewComponentLogger(logger, "cli")

	for _, failed := range preflight.Failed(preflight.RunAll(cfg)) {
		logging.Warn(cliLogger, eventPreflight, "preflight check failed",
			logging.String("check", failed.Name),
			logging.String("detail", failed.Detail),
		)
	}

	if len(plan.TempFiles) > 0 {
		lock, err := pipeline.AcquireLock(cfg.LockPath())
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				cliLogger.Debug("lock release failed", logging.String("path", lock.Path()), logging.Error(err))
			}
		}()
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := pipeline.NewRunner(cmd.OutOrStdout(), cmd.ErrOrStderr(), logger,
		pipeline.WithStopOnError(cfg.Pipeline.StopOnError),
		pipeline.WithStageTimeout(time.Duration(cfg.Pipeline.StageTimeoutSeconds)*time.Second),
	)
	result, runErr := r.Run(runCtx, plan)

	if cfg.History.Enabled {
		recordRun(cfg, cliLogger, result, runErr)
	}
	return runErr
}

// recordRun stores the run in the history database. Failures are logged only.
func recordRun(cfg *config.Config, logger *slog.Logger, result pipeline.Result, runErr error) {
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logging.Warn(logger, eventHistory, "run history unavailable",
			logging.String("path", cfg.HistoryPath()),
			logging.Error(err),
		)
		return
	}
	defer store.Close()

	run := history.FromResult(result)
	if runErr != nil && run.Status == history.StatusOK {
		run.Status = history.StatusFailed
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Record(ctx, run); err != nil {
		logging.Warn(logger, eventHistory, "run history not recorded",
			logging.String(logging.FieldRunID, run.ID),
			logging.Error(err),
		)
	}
}
