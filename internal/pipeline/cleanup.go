package pipeline

import (
	"fmt"
	"io"
	"os"
)

// RemoveTempFiles deletes each path best-effort. A failed removal prints a
// notice to out and is returned for logging; it never stops the caller.
func RemoveTempFiles(out io.Writer, paths []string) []error {
	var failures []error
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			if out != nil {
				fmt.Fprintf(out, "Removing %s did not execute properly.\n", path)
			}
			failures = append(failures, fmt.Errorf("remove %s: %w", path, err))
		}
	}
	return failures
}
