package pipeline

import (
	"fmt"

	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// ValidationFailedError is returned by Run when the input has error-severity issues.
type ValidationFailedError struct {
	Issues []types.Issue
}

func (e *ValidationFailedError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("validation failed: %s", e.Issues[0])
	}
	return fmt.Sprintf("validation failed with %d errors; first: %s", len(e.Issues), e.Issues[0])
}
