package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"locationmapper/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_SkipsStateDirWhenHistoryDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.Paths.StateDir = filepath.Join(t.TempDir(), "missing")

	cfg.History.Enabled = false
	results := RunAll(&cfg)
	if len(results) != 1 || !results[0].Passed {
		t.Fatalf("expected only the working directory check, got %+v", results)
	}

	cfg.History.Enabled = true
	results = RunAll(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected two checks, got %+v", results)
	}
	if failed := Failed(results); len(failed) != 1 || failed[0].Name != "State directory" {
		t.Fatalf("expected state directory failure, got %+v", failed)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
}

func TestCheckSystemDeps_ReportsBinariesThenFiles(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkDir = t.TempDir()
	binDir := t.TempDir()
	for _, name := range []string{"node", "npx", "java"} {
		if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatalf("write stub: %v", err)
		}
	}
	t.Setenv("PATH", binDir)
	if err := os.MkdirAll(filepath.Join(cfg.Paths.WorkDir, "clean"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Paths.WorkDir, cfg.Tools.CleanScript), []byte("//"), 0o644); err != nil {
		t.Fatalf("write clean script: %v", err)
	}

	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 11 {
		t.Fatalf("expected 11 statuses, got %d", len(statuses))
	}
	for _, s := range statuses[:3] {
		if !s.Available {
			t.Fatalf("expected %s available, got %+v", s.Name, s)
		}
	}
	if statuses[3].Name != "Clean script" || !statuses[3].Available {
		t.Fatalf("expected clean script available, got %+v", statuses[3])
	}
	if statuses[4].Available {
		t.Fatalf("expected mapping template missing, got %+v", statuses[4])
	}
}
