package execution

import (
	"errors"
	"fmt"
)

// Code classifies why an execution file could not be reported on.
type Code string

const (
	CodeFileNotFound    Code = "file_not_found"
	CodeReadFailed      Code = "read_failed"
	CodeInvalidJSON     Code = "invalid_json"
	CodeNoExecutionData Code = "no_execution_data"
	CodeNodeNotFound    Code = "node_not_found"
)

// Sentinels for errors.Is; they match any *Error carrying the same Code.
var (
	ErrFileNotFound    = &Error{Code: CodeFileNotFound}
	ErrReadFailed      = &Error{Code: CodeReadFailed}
	ErrInvalidJSON     = &Error{Code: CodeInvalidJSON}
	ErrNoExecutionData = &Error{Code: CodeNoExecutionData}
	ErrNodeNotFound    = &Error{Code: CodeNodeNotFound}
)

// Error carries a code plus the context needed to explain it, preserving the
// original cause via Unwrap.
type Error struct {
	Code Code
	Path string
	Node string
	// Available lists the valid node names in document order (CodeNodeNotFound only).
	Available []string
	cause     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Code {
	case CodeFileNotFound:
		return fmt.Sprintf("File not found: %s", e.Path)
	case CodeReadFailed:
		if e.cause != nil {
			return fmt.Sprintf("Cannot read file: %s: %v", e.Path, e.cause)
		}
		return fmt.Sprintf("Cannot read file: %s", e.Path)
	case CodeInvalidJSON:
		if e.cause != nil {
			return fmt.Sprintf("Invalid JSON in file: %v", e.cause)
		}
		return "Invalid JSON in file"
	case CodeNoExecutionData:
		return "No node execution data found in this file"
	case CodeNodeNotFound:
		return fmt.Sprintf("Node \"%s\" not found in execution.", e.Node)
	default:
		if e.cause != nil {
			return e.cause.Error()
		}
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the Code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
