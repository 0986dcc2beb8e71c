package rfpdesk

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the extraction and dispatch taxonomies. Use errors.Is to check.
var (
	// Extraction failures.
	ErrMalformedOutput = errors.New("malformed model output")
	ErrSchemaViolation = errors.New("record schema violation")
	ErrProviderFailure = errors.New("completion provider failure")

	// Dispatch failures.
	ErrUnknownTool       = errors.New("unknown tool")
	ErrInvalidArguments  = errors.New("invalid tool arguments")
	ErrNoMatchingRecords = errors.New("no matching records")
	ErrHandlerFailure    = errors.New("tool handler failure")
)

// ExtractionError reports a failed conversion of untrusted model JSON into a
// typed value. Err wraps one of ErrMalformedOutput, ErrSchemaViolation, or
// ErrProviderFailure for errors.Is/errors.As. Fields lists the offending JSON
// paths for schema violations so the caller can report what was wrong without
// exposing validator internals.
type ExtractionError struct {
	Reason string
	Fields []string
	Err    error // wrapped sentinel for errors.Is/errors.As
}

func (e *ExtractionError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("extraction failed: %s (fields: %s)", e.Reason, strings.Join(e.Fields, ", "))
	}
	return "extraction failed: " + e.Reason
}

// Unwrap supports errors.Is/errors.As on wrapped chains.
func (e *ExtractionError) Unwrap() error { return e.Err }

// DispatchError reports a failed tool dispatch. Err wraps one of
// ErrUnknownTool, ErrInvalidArguments, ErrNoMatchingRecords, or
// ErrHandlerFailure. Reason is internal diagnostic text; the orchestrator
// translates dispatch failures into user-safe explanations and never shows
// Reason to the end user.
type DispatchError struct {
	Tool   string
	Reason string
	Err    error // wrapped sentinel for errors.Is/errors.As
}

func (e *DispatchError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("dispatch %s: %s", e.Tool, e.Reason)
	}
	return "dispatch: " + e.Reason
}

func (e *DispatchError) Unwrap() error { return e.Err }

// IsExtractionError returns true if err is or wraps an ExtractionError.
func IsExtractionError(err error) bool {
	var xe *ExtractionError
	return errors.As(err, &xe)
}

// IsDispatchError returns true if err is or wraps a DispatchError.
func IsDispatchError(err error) bool {
	var de *DispatchError
	return errors.As(err, &de)
}

// wrapHandlerError passes through DispatchError (a handler may legitimately
// fail with ErrNoMatchingRecords); anything else is an internal failure.
func wrapHandlerError(toolName string, err error) error {
	if err == nil {
		return nil
	}
	if IsDispatchError(err) {
		return err
	}
	return &DispatchError{Tool: toolName, Reason: err.Error(), Err: ErrHandlerFailure}
}

// panicError wraps a recovered panic value; used by Registry and WithRecovery middleware.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
