// Package result models the aggregated outcome of a test run: the
// Global → Product → Suite → Group → Test → Step hierarchy, the failures
// recorded along the way, and the bottom-up Compute pass.
package result

// Status is the outcome of a test or step.
type Status string

// Statuses reported on the wire.
const (
	StatusPass     Status = "pass"
	StatusFail     Status = "fail"
	StatusSkip     Status = "skip"
	StatusTodoPass Status = "todo-pass"
	StatusTodoFail Status = "todo-fail"
)

// Statuses synthesized by the parser.
const (
	StatusMissing   Status = "missing"
	StatusBadNumber Status = "bad-number"
)

// Suite statuses set by the done marker.
const (
	SuitePass = "pass"
	SuiteFail = "fail"
)

// AllStatuses lists the full vocabulary in reporting order.
var AllStatuses = []Status{
	StatusPass,
	StatusFail,
	StatusSkip,
	StatusTodoPass,
	StatusTodoFail,
	StatusMissing,
	StatusBadNumber,
}

// ParseStatus converts a wire token into a Status.
// Only the five wire statuses are accepted.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPass, StatusFail, StatusSkip, StatusTodoPass, StatusTodoFail:
		return Status(s), true
	}
	return "", false
}

// IsFailing reports whether a test in this status counts as failed.
func (s Status) IsFailing() bool {
	switch s {
	case StatusFail, StatusTodoPass, StatusMissing, StatusBadNumber:
		return true
	}
	return false
}

// IsSkipped reports whether a test in this status counts as skipped.
func (s Status) IsSkipped() bool {
	return s == StatusSkip || s == StatusTodoFail
}

// OpensFailure reports whether a parsed test in this status opens a failure
// that collects trace lines.
func (s Status) OpensFailure() bool {
	return s == StatusFail || s == StatusTodoPass
}
