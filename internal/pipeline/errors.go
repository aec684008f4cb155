package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks a stage whose process failed or exited non-zero.
	ErrExternalTool = errors.New("external tool error")
	// ErrConfiguration marks a plan that could not be prepared, such as a
	// missing mapping template.
	ErrConfiguration = errors.New("configuration error")
	// ErrTimeout marks a stage killed by pipeline.stage_timeout_seconds.
	ErrTimeout = errors.New("timeout")
	// ErrBusy marks a run refused because another run holds the working directory.
	ErrBusy = errors.New("working directory busy")
)

// Wrap builds an error message that includes stage context while tagging it
// with marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
