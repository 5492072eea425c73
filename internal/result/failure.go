package result

import "fmt"

// Failure is the record of a failing, missing or misnumbered test, or of a
// suite-level anomaly.
type Failure struct {
	Status Status

	Product   string
	Suite     string // full suite path
	SuiteName string
	Group     string
	Test      string

	// Context is a copy of the lines seen just before the failure.
	Context    []string
	Trace      []string
	Screenshot string
	BrowserLog []string

	// FailedStep names the first failing step of the test, FailedStepFile
	// is its source location.
	FailedStep     string
	FailedStepFile string
}

// AddTrace appends a trace line.
func (f *Failure) AddTrace(line string) {
	f.Trace = append(f.Trace, line)
}

// Summary is the one-line description used in reports.
func (f *Failure) Summary() string {
	if f.Group == "" {
		return fmt.Sprintf("[%s] %s", f.Status, f.Test)
	}
	return fmt.Sprintf("[%s] %s :: %s", f.Status, f.Group, f.Test)
}
