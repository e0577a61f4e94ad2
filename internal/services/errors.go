package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGateway marks an opaque upstream failure from the AI backend. It is
	// surfaced to the caller unmodified; no library mutation happens when a
	// gateway call fails.
	ErrGateway = errors.New("gateway error")

	// ErrValidation marks a rejected input or precondition violation.
	ErrValidation = errors.New("validation error")

	// ErrConfiguration marks missing or unusable configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotFound marks an operation that referenced an unknown entity.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation marks a request that is well formed but not legal
	// in the current state, such as duplicating a course name.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrTimeout marks an upstream call that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for classification by callers. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrGateway
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
