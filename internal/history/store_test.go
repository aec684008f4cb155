package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"locationmapper/internal/history"
	"locationmapper/internal/pipeline"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestRecordAndRecentNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, cmd := range []string{"gpx", "css", "gpxToCss"} {
		run := history.Run{
			ID:        cmd + "-run",
			Command:   cmd,
			Status:    history.StatusOK,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Total:     1500 * time.Millisecond,
			Stages:    []history.StageRecord{{Name: "clean", DurationMS: 12}},
		}
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Command != "gpxToCss" || runs[1].Command != "css" {
		t.Fatalf("unexpected order: %s, %s", runs[0].Command, runs[1].Command)
	}
	if !runs[0].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("unexpected start time: %v", runs[0].StartedAt)
	}
	if runs[0].Total != 1500*time.Millisecond {
		t.Fatalf("unexpected total: %v", runs[0].Total)
	}
	if len(runs[0].Stages) != 1 || runs[0].Stages[0].DurationMS != 12 {
		t.Fatalf("unexpected stages: %+v", runs[0].Stages)
	}
}

func TestRecordRequiresID(t *testing.T) {
	store := openStore(t)
	if err := store.Record(context.Background(), history.Run{Command: "gpx"}); err == nil {
		t.Fatal("expected error for missing run id")
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	if err := store.Record(context.Background(), history.Run{ID: "a", Command: "linestr", Status: history.StatusOK, StartedAt: time.Now()}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	store.Close()

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "a" {
		t.Fatalf("unexpected runs after reopen: %+v", runs)
	}
}

func TestFromResultClassifiesStatus(t *testing.T) {
	started := time.Now().UTC()
	tests := []struct {
		name string
		res  pipeline.Result
		want history.Status
	}{
		{
			name: "ok with skipped stage",
			res: pipeline.Result{Stages: []pipeline.StageResult{
				{Name: "clean", Duration: 5 * time.Millisecond},
				{Name: "ldes", Skipped: true},
			}},
			want: history.StatusOK,
		},
		{
			name: "failed stage tolerated",
			res: pipeline.Result{Stages: []pipeline.StageResult{
				{Name: "clean", ExitCode: 1, Err: errors.New("exit status 1")},
				{Name: "yarrrml"},
			}},
			want: history.StatusFailed,
		},
		{
			name: "aborted",
			res: pipeline.Result{Aborted: true, Stages: []pipeline.StageResult{
				{Name: "clean", ExitCode: 1, Err: errors.New("exit status 1")},
			}},
			want: history.StatusAborted,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.res.RunID = "id"
			tc.res.Command = "gpx"
			tc.res.Started = started
			run := history.FromResult(tc.res)
			if run.Status != tc.want {
				t.Fatalf("expected status %s, got %s", tc.want, run.Status)
			}
			if len(run.Stages) != len(tc.res.Stages) {
				t.Fatalf("expected %d stages, got %d", len(tc.res.Stages), len(run.Stages))
			}
			for i, s := range tc.res.Stages {
				if s.Err != nil && run.Stages[i].Error == "" {
					t.Fatalf("expected error text for stage %s", s.Name)
				}
			}
		})
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenStampsSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}
