package gen

import (
	"errors"
	"fmt"
)

// PlacementError reports that a step could not find a valid target within
// its retry budget. It is recoverable: the queue logs it, treats the step
// as a no-op, and keeps draining. Any other error from a step is a
// structural or configuration problem and aborts the floor.
type PlacementError struct {
	Step   string
	Reason string
}

// Error implements the error interface.
func (e *PlacementError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Reason)
}

// placementFailed builds a PlacementError for a step.
func placementFailed(step, format string, args ...any) error {
	return &PlacementError{Step: step, Reason: fmt.Sprintf(format, args...)}
}

// IsPlacement reports whether the error chain contains a PlacementError.
func IsPlacement(err error) bool {
	var pe *PlacementError
	return errors.As(err, &pe)
}
