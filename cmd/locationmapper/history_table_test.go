package main

import (
	"strings"
	"testing"
	"time"

	"locationmapper/internal/history"
)

func TestSummarizeStages(t *testing.T) {
	if got := summarizeStages(nil); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
	got := summarizeStages([]history.StageRecord{
		{Name: "clean", DurationMS: 12},
		{Name: "yarrrml", DurationMS: 40, ExitCode: 1, Error: "exit status 1"},
		{Name: "ldes", Skipped: true},
	})
	want := "Clean 12ms, Yarrrml 40ms (exit 1), Ldes skipped"
	if got != want {
		t.Fatalf("summarizeStages() = %q, want %q", got, want)
	}
}

func TestRenderHistoryTableCountsUnhealthyRuns(t *testing.T) {
	started := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	runs := []history.Run{
		{Command: "linestr", Status: history.StatusOK, StartedAt: started, Total: 15 * time.Millisecond},
		{Command: "gpx", Status: history.StatusAborted, StartedAt: started, Total: 2 * time.Second},
		{Command: "css", Status: history.StatusFailed, StartedAt: started, Total: time.Millisecond},
	}
	out := renderHistoryTable(runs, false)
	for _, fragment := range []string{"Started", "Stages", "linestr", "aborted", "2000ms", "3 runs", "2 not ok"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in table:\n%s", fragment, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no colour codes without a terminal:\n%s", out)
	}
}

func TestStatusTransformerColours(t *testing.T) {
	plain := statusTransformer(false)(history.StatusFailed)
	if plain != "failed" {
		t.Fatalf("expected plain status, got %q", plain)
	}
	coloured := statusTransformer(true)(history.StatusFailed)
	if !strings.Contains(coloured, "failed") || !strings.Contains(coloured, "\x1b[") {
		t.Fatalf("expected coloured status, got %q", coloured)
	}
}
