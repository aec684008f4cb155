package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubBodies holds per-binary behaviour beyond recording argv. The node stub
// writes the cleaned output file the way the real clean script does. The npx
// stub copies the mapping handed to yarrrml-parser to $STUB_MAPPING_COPY.
var stubBodies = map[string]string{
	"node": `if [ $# -ge 3 ]; then : > "$3"; fi`,
	"npx":  `if [ "$1" = yarrrml-parser ] && [ -n "$STUB_MAPPING_COPY" ]; then cp "$3" "$STUB_MAPPING_COPY"; fi`,
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. Each stub appends its argv to StubLog and exits with
// $STUB_EXIT_<NAME> (default 0). If names is empty, node, npx and java are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"node", "npx", "java"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		logPath := stubLogPath(b.baseDir)
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, []byte(stubScript(name, logPath)), 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// StubCalls returns the argv of every stub invocation in order, binary name
// first.
func StubCalls(t testing.TB, baseDir string) [][]string {
	t.Helper()

	data, err := os.ReadFile(stubLogPath(baseDir))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read stub log: %v", err)
	}
	var calls [][]string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		calls = append(calls, strings.Split(line, "\t"))
	}
	return calls
}

func stubLogPath(baseDir string) string {
	return filepath.Join(baseDir, "stub-calls.log")
}

func stubScript(name, logPath string) string {
	envName := "STUB_EXIT_" + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "{ printf '%%s' %q; for a in \"$@\"; do printf '\\t%%s' \"$a\"; done; printf '\\n'; } >> %q\n", name, logPath)
	if body, ok := stubBodies[name]; ok {
		b.WriteString(body + "\n")
	}
	fmt.Fprintf(&b, "exit \"${%s:-0}\"\n", envName)
	return b.String()
}
