package workflow

import (
	"errors"
	"fmt"
)

// ErrTimeout means the run did not reach a terminal state within the
// wall-clock budget. Distinct from a failure the workflow itself reported.
var ErrTimeout = errors.New("workflow did not complete within the wait budget")

// FailureError carries a failure reported by the workflow service.
type FailureError struct {
	RunID   string
	Status  string // FAILED or ERROR
	Message string
}

func (e *FailureError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("workflow %s finished with status %s", e.RunID, e.Status)
	}
	return fmt.Sprintf("workflow %s failed: %s", e.RunID, e.Message)
}
