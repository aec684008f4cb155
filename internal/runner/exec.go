package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Command describes one external invocation.
type Command struct {
	Binary string
	Args   []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Interactive commands are attached to the terminal directly because
	// they prompt without a trailing newline.
	Interactive bool
}

// String renders the command line for logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Binary)
	parts = append(parts, c.Args...)
	return strings.Join(parts, " ")
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, cmd Command, onStdout, onStderr func(string)) error
}

// CommandExecutor runs commands with os/exec.
type CommandExecutor struct{}

// waitDelay bounds how long Wait keeps copying output after the process
// exits or is cancelled; grandchildren may still hold the pipes open.
const waitDelay = 2 * time.Second

// Run starts the command, forwards its output line by line, and waits for it
// to exit. A non-zero exit is returned as an error wrapping *exec.ExitError.
// Cancelling ctx kills the whole process group of a non-interactive command.
func (CommandExecutor) Run(ctx context.Context, c Command, onStdout, onStderr func(string)) error {
	if strings.TrimSpace(c.Binary) == "" {
		return errors.New("command binary required")
	}
	cmd := exec.CommandContext(ctx, c.Binary, c.Args...) //nolint:gosec
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay
	if c.Interactive {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("run command: %w", err)
		}
		return nil
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}

	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if forward != nil {
				forward(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
			// Keep draining so the copy goroutines never block.
			_, _ = io.Copy(io.Discard, r)
		}
	}

	wg.Add(2)
	go scan(stdoutR, onStdout)
	go scan(stderrR, onStderr)

	var waitErr error
	if err := cmd.Start(); err != nil {
		waitErr = fmt.Errorf("start command: %w", err)
	} else if err := cmd.Wait(); err != nil {
		waitErr = fmt.Errorf("wait command: %w", err)
	}
	_ = stdoutW.Close()
	_ = stderrW.Close()
	wg.Wait()

	if waitErr != nil {
		return waitErr
	}
	if scanErr != nil {
		return fmt.Errorf("scan output: %w", scanErr)
	}
	return nil
}

// ExitCode extracts the process exit status from an Executor error. It
// returns 0 for nil and -1 when the process did not run to completion.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// LineWriter returns a callback that writes each line to w.
func LineWriter(w io.Writer) func(string) {
	if w == nil {
		return nil
	}
	var mu sync.Mutex
	return func(line string) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = io.WriteString(w, line+"\n")
	}
}
