package pipeline

import (
	"fmt"
	"strings"
)

// StageExecutionError wraps the failure of one stage executor. Its code
// is derived from the stage name, e.g. PAGES_FAILED. Collaborator
// errors (storage, AI provider) arrive here wrapped by the stage that
// invoked them.
type StageExecutionError struct {
	Stage StageName
	Code  string
	Err   error
}

func (e *StageExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *StageExecutionError) Unwrap() error { return e.Err }

func newStageExecutionError(stage StageName, err error) *StageExecutionError {
	return &StageExecutionError{
		Stage: stage,
		Code:  strings.ToUpper(string(stage)) + "_FAILED",
		Err:   err,
	}
}
