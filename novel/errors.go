package novel

import "fmt"

// InvalidInputError rejects malformed caller-supplied identifiers or
// parameters before any fetch is attempted.
type InvalidInputError struct {
	Param  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// ExhaustedRetriesError is surfaced after every attempt failed, for either
// fetch or extraction reasons. It deliberately carries no attempt-by-attempt
// detail; per-attempt errors are logged for operators only.
type ExhaustedRetriesError struct {
	Operation string
	Attempts  int
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts", e.Operation, e.Attempts)
}
