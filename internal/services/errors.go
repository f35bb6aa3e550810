package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrQuotaExceeded marks provider quota exhaustion. It is fatal for the
	// remainder of a sourcing run: the scene loop must stop, not skip.
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	// ErrNotFound marks a missing entity or an empty provider result set.
	ErrNotFound = errors.New("not found")
	// ErrNoResults marks a pipeline run that produced zero suggestions
	// across every scene.
	ErrNoResults = errors.New("no results")
	// ErrValidation marks malformed input that a retry cannot fix.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks broken or missing configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransient marks a failure worth recording that should not stop
	// sibling scenes from processing.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must terminate the whole sourcing run
// rather than just the scene that produced it.
func IsFatal(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// API error codes surfaced in HTTP payloads.
const (
	CodeProjectNotFound = "PROJECT_NOT_FOUND"
	CodeNoScenesFound   = "NO_SCENES_FOUND"
	CodeMCPNoResults    = "MCP_NO_RESULTS"
	CodeQuotaExceeded   = "QUOTA_EXCEEDED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// ErrorCode maps a classified error to the stable code clients branch on.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		return CodeQuotaExceeded
	case errors.Is(err, ErrNoResults):
		return CodeMCPNoResults
	case errors.Is(err, ErrNotFound):
		return CodeProjectNotFound
	default:
		return CodeInternalError
	}
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
