// Package golden loads end-to-end report cases: a log, the command-line
// arguments to run it with, and the exact z-report and exit code expected.
package golden

// Case is a single golden case loaded from JSON.
type Case struct {
	Name        string   // Case name (from filename)
	Suite       string   // Suite name (parent directory)
	Path        string   // Full path to the case file
	Description string   // Optional documentation
	Args        []string // Extra command-line flags
	Input       []string // Log lines fed on stdin
	Output      []string // Expected report lines
	ExitCode    int      // Expected exit code
	Skip        bool     // Skip marks a case that is not run
}

// caseFile is the on-disk shape of a case. Input and Output are either an
// array of lines or a {"$file": "<name>"} reference to a sibling file.
type caseFile struct {
	Description string   `json:"description"`
	Args        []string `json:"args"`
	Input       any      `json:"input"`
	Output      any      `json:"output"`
	ExitCode    *int     `json:"exit_code"`
	Skip        bool     `json:"skip"`
}
