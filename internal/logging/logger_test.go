package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"locationmapper/internal/config"
	"locationmapper/internal/logging"
)

func TestNewFromConfigWritesStateLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.StateDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from test") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerPrefixesComponentAndStage(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{Level: "info"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithStage(logging.WithRunID(context.Background(), "run-1"), "rmlmapper")
	stageLogger := logging.WithContext(ctx, logging.NewComponentLogger(logger, "pipeline"))
	stageLogger.Info("stage finished", logging.Int("exit_code", 0), logging.String("argv", "java -jar x.jar"))
	stageLogger.Debug("filtered")

	line := buf.String()
	for _, want := range []string{" INFO pipeline/rmlmapper: stage finished", "run_id=run-1", "exit_code=0", `argv="java -jar x.jar"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Count(line, "\n") != 1 {
		t.Fatalf("expected debug line filtered, got %q", line)
	}
	if strings.Contains(line, "component=") || strings.Contains(line, "stage=") {
		t.Fatalf("expected component and stage only in the prefix, got %q", line)
	}
}

func TestConsoleLoggerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.WithGroup("lock").Info("held", logging.String("path", "/tmp/x"))
	if !strings.Contains(buf.String(), " lock.path=/tmp/x") {
		t.Fatalf("expected dotted group key, got %q", buf.String())
	}
}

func TestWarnAddsEventDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, logging.Options{Format: "json", Level: "warn"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ev := logging.Event{Type: "stage_failure", Hint: "check the tool output above", Impact: "later stages may fail"}
	logger.Info("filtered")
	logging.Warn(logger, ev, "stage failed", logging.Error(errors.New("exit status 1")))
	logging.Warn(logger, ev, "stage timed out", logging.String(logging.FieldErrorHint, "raise the timeout"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two warn lines, got %d: %q", len(lines), buf.String())
	}
	var first, second map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if first["level"] != "warn" || first["msg"] != "stage failed" || first["error"] != "exit status 1" {
		t.Fatalf("unexpected entry: %v", first)
	}
	if first[logging.FieldEventType] != "stage_failure" || first[logging.FieldImpact] != "later stages may fail" {
		t.Fatalf("expected event defaults, got %v", first)
	}
	if _, ok := first["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", first)
	}
	if second[logging.FieldErrorHint] != "raise the timeout" {
		t.Fatalf("expected call-site hint to win, got %v", second)
	}
}

func TestNewRejectsUnknownFormatAndLevel(t *testing.T) {
	if _, err := logging.New(&bytes.Buffer{}, logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, err := logging.New(&bytes.Buffer{}, logging.Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unsupported level")
	}
}
