// Package errors provides structured error types and exit codes for zreport.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes of the zreport binary.
const (
	ExitSuccess          = 0   // No failures recorded
	ExitRuntimeError     = 1   // Unexpected runtime error (report write failed, etc.)
	ExitUsageError       = 2   // Bad flags or invalid config
	ExitEnvironmentError = 3   // Input or config file not readable
	ExitInconsistent     = 4   // Test stream could not be reconciled
	ExitTestsFailed      = 255 // Report has at least one failure
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindUsage
	KindConfig
	KindEnvironment
	KindInconsistent
)

// ReportError is the base error type for zreport.
type ReportError struct {
	Kind    ErrorKind
	Message string
	Path    string // File the error relates to, if any
	Cause   error  // Underlying error
}

func (e *ReportError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ReportError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *ReportError) ExitCode() int {
	switch e.Kind {
	case KindUsage, KindConfig:
		return ExitUsageError
	case KindEnvironment:
		return ExitEnvironmentError
	case KindInconsistent:
		return ExitInconsistent
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *ReportError {
	return &ReportError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...any) *ReportError {
	return New(fmt.Sprintf(format, args...))
}

// Usage creates a command-line usage error.
func Usage(message string) *ReportError {
	return &ReportError{
		Kind:    KindUsage,
		Message: message,
	}
}

// Usagef creates a usage error with formatting.
func Usagef(format string, args ...any) *ReportError {
	return Usage(fmt.Sprintf(format, args...))
}

// Config creates a configuration error for the file at path.
func Config(path, message string) *ReportError {
	return &ReportError{
		Kind:    KindConfig,
		Path:    path,
		Message: message,
	}
}

// Environment creates an environment error for the file at path.
func Environment(path string, cause error) *ReportError {
	return &ReportError{
		Kind:    KindEnvironment,
		Path:    path,
		Message: "cannot read",
		Cause:   cause,
	}
}

// Inconsistent wraps a stream reconciliation failure.
func Inconsistent(path string, cause error) *ReportError {
	return &ReportError{
		Kind:    KindInconsistent,
		Path:    path,
		Message: "inconsistent test stream",
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *ReportError {
	return &ReportError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.ExitCode()
	}
	return ExitRuntimeError
}
