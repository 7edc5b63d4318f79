package script

import (
	"fmt"

	"github.com/osse101/armory/internal/domain"
)

// CompileError reports a failed compilation together with every diagnostic it produced
type CompileError struct {
	Diagnostics Diagnostics
}

func (e *CompileError) Error() string {
	for _, d := range e.Diagnostics {
		if d.Severity == SeverityError {
			return fmt.Sprintf("%s: %d error(s), first: %s", domain.ErrMsgCompile, e.Diagnostics.Errors(), d)
		}
	}
	return domain.ErrMsgCompile
}

// Unwrap makes errors.Is(err, domain.ErrCompile) hold
func (e *CompileError) Unwrap() error {
	return domain.ErrCompile
}

// ExecutionError reports a fault raised while running an entry point.
// Cause is the script error, or the context error when the run was cancelled.
type ExecutionError struct {
	EntryPoint string
	Message    string
	Cause      error
}

func (e *ExecutionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", domain.ErrMsgExecution, e.EntryPoint)
	}
	return fmt.Sprintf("%s: %s: %s", domain.ErrMsgExecution, e.EntryPoint, e.Message)
}

// Unwrap exposes both domain.ErrExecution and the underlying cause
func (e *ExecutionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{domain.ErrExecution}
	}
	return []error{domain.ErrExecution, e.Cause}
}
