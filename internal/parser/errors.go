package parser

import (
	"errors"
	"fmt"
)

// MaxBackfill bounds how many missing tests one gap may synthesize. A larger
// gap means the stream (or the parser) is broken, not that tests are missing.
const MaxBackfill = 1000

// ErrInconsistent is matched by every InconsistencyError.
var ErrInconsistent = errors.New("inconsistent test stream")

// InconsistencyError reports an impossible position while backfilling a
// group. Once returned, the parser refuses further input.
type InconsistencyError struct {
	Line  int
	Group string
	From  int
	To    int
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("line %d: group %q: cannot backfill tests %d..%d (limit %d)",
		e.Line, e.Group, e.From, e.To, MaxBackfill)
}

func (e *InconsistencyError) Unwrap() error {
	return ErrInconsistent
}
