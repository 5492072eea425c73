// Package zreport provides public constants for tools that run the zreport
// binary and inspect its exit status.
package zreport

// Exit codes returned by the zreport CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the report has no failures.
	ExitSuccess = 0

	// ExitFailure indicates an unexpected runtime failure (report write failed, etc.).
	ExitFailure = 1

	// ExitUsageError indicates bad flags or an invalid config file.
	ExitUsageError = 2

	// ExitEnvError indicates the log or config file could not be read.
	ExitEnvError = 3

	// ExitInconsistent indicates the test stream could not be reconciled.
	ExitInconsistent = 4

	// ExitTestsFailed indicates the report records at least one failure.
	ExitTestsFailed = 255
)
