package runner_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"locationmapper/internal/runner"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandExecutorForwardsOutput(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "tool.sh", "echo out-$1\necho err-$2 1>&2\npwd\n")

	var stdout, stderr []string
	err := runner.CommandExecutor{}.Run(context.Background(), runner.Command{
		Binary: script,
		Args:   []string{"a", "b"},
		Dir:    dir,
	}, func(line string) { stdout = append(stdout, line) }, func(line string) { stderr = append(stderr, line) })
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(stdout) != 2 || stdout[0] != "out-a" {
		t.Fatalf("unexpected stdout: %v", stdout)
	}
	resolved, _ := filepath.EvalSymlinks(dir)
	if got, _ := filepath.EvalSymlinks(stdout[1]); got != resolved {
		t.Fatalf("expected command to run in %q, got %q", resolved, stdout[1])
	}
	if len(stderr) != 1 || stderr[0] != "err-b" {
		t.Fatalf("unexpected stderr: %v", stderr)
	}
}

func TestCommandExecutorReportsExitCode(t *testing.T) {
	script := writeScript(t, t.TempDir(), "fail.sh", "exit 3\n")
	err := runner.CommandExecutor{}.Run(context.Background(), runner.Command{Binary: script}, nil, nil)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if code := runner.ExitCode(err); code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
}

func TestCommandExecutorMissingBinary(t *testing.T) {
	err := runner.CommandExecutor{}.Run(context.Background(), runner.Command{Binary: filepath.Join(t.TempDir(), "nope")}, nil, nil)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if code := runner.ExitCode(err); code != -1 {
		t.Fatalf("expected -1 for a process that never started, got %d", code)
	}
}

func TestExitCodeNil(t *testing.T) {
	if runner.ExitCode(nil) != 0 {
		t.Fatal("expected 0 for nil error")
	}
	if runner.ExitCode(errors.New("boom")) != -1 {
		t.Fatal("expected -1 for generic error")
	}
}

func TestCommandString(t *testing.T) {
	cmd := runner.Command{Binary: "npx", Args: []string{"ts-node", "linestring.ts", "in.ttl"}}
	if got := cmd.String(); got != "npx ts-node linestring.ts in.ttl" {
		t.Fatalf("unexpected command string: %q", got)
	}
}

func TestLineWriterAppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	write := runner.LineWriter(&buf)
	write("one")
	write("two")
	if strings.TrimSpace(buf.String()) != "one\ntwo" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestCommandExecutorInteractiveReportsExitCode(t *testing.T) {
	script := writeScript(t, t.TempDir(), "prompt.sh", "exit 4\n")
	called := false
	err := runner.CommandExecutor{}.Run(context.Background(), runner.Command{Binary: script, Interactive: true},
		func(string) { called = true }, nil)
	if code := runner.ExitCode(err); code != 4 {
		t.Fatalf("expected exit code 4, got %d (%v)", code, err)
	}
	if called {
		t.Fatal("interactive commands must not be line-forwarded")
	}
}

func TestCommandExecutorStopsOnTimeout(t *testing.T) {
	script := writeScript(t, t.TempDir(), "slow.sh", "echo started\nsleep 5\necho finished\n")
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var stdout []string
	start := time.Now()
	err := runner.CommandExecutor{}.Run(ctx, runner.Command{Binary: script},
		func(line string) { stdout = append(stdout, line) }, nil)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected error for a cancelled command")
	}
	if elapsed > 3*time.Second {
		t.Fatalf("Run ignored cancellation for %s", elapsed)
	}
	if len(stdout) != 1 || stdout[0] != "started" {
		t.Fatalf("unexpected stdout: %v", stdout)
	}
}

func TestCommandExecutorKillsBackgroundChildren(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "survived")
	script := writeScript(t, dir, "spawn.sh", "(sleep 2; touch "+marker+") &\nwait\n")
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := (runner.CommandExecutor{}).Run(ctx, runner.Command{Binary: script}, nil, nil); err == nil {
		t.Fatal("expected error for a cancelled command")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("Run ignored cancellation for %s", elapsed)
	}
	time.Sleep(2500 * time.Millisecond)
	if _, err := os.Stat(marker); err == nil {
		t.Fatal("background child outlived the cancelled command")
	}
}

func TestCommandExecutorDoesNotWaitForOrphanedOutput(t *testing.T) {
	script := writeScript(t, t.TempDir(), "orphan.sh", "sleep 10 &\necho done\n")

	start := time.Now()
	err := runner.CommandExecutor{}.Run(context.Background(), runner.Command{Binary: script}, nil, nil)
	if elapsed := time.Since(start); elapsed > 6*time.Second {
		t.Fatalf("Run waited %s for a child holding the output pipes", elapsed)
	}
	if err != nil && !errors.Is(err, exec.ErrWaitDelay) {
		t.Fatalf("unexpected error: %v", err)
	}
}
