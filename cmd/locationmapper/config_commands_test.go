package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"locationmapper/internal/config"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Working directory: "+env.cfg.Paths.WorkDir)
	requireContains(t, out, "Mapping template:  "+env.cfg.WorkPath(env.cfg.Mapping.Template))
	requireContains(t, out, "Stage timeout:     none")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "Set paths.work_dir")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigInitWritesWorkDir(t *testing.T) {
	setupCLITestEnv(t)
	workDir := t.TempDir()
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target, "--work-dir", workDir}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if strings.Contains(out, "Set paths.work_dir") {
		t.Fatalf("expected no work_dir reminder, got %q", out)
	}
	cfg, _, _, err := config.Load(target)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.Paths.WorkDir != workDir {
		t.Fatalf("expected work_dir %q, got %q", workDir, cfg.Paths.WorkDir)
	}
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--log-level", "debug", "config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	var shown config.Config
	if err := toml.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decode shown config: %v\n%s", err, out)
	}
	if shown.Paths.WorkDir != env.cfg.Paths.WorkDir {
		t.Fatalf("expected work_dir %q, got %q", env.cfg.Paths.WorkDir, shown.Paths.WorkDir)
	}
	if shown.Logging.Level != "debug" {
		t.Fatalf("expected --log-level to be reflected, got %q", shown.Logging.Level)
	}
}

func TestInvalidLogLevelFlag(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"--log-level", "verbose", "css", "-i", "a.ttl", "-o", "http://x/"}, env.configPath); err == nil {
		t.Fatal("expected invalid --log-level to fail")
	}
	if calls := env.calls(t); len(calls) != 0 {
		t.Fatalf("expected no tools to run, got %q", calls)
	}
}
