package model

import (
	"fmt"

	"todolist/shared/failure"
)

// StatusTransitionError rejects a status change the transition table does not allow. It
// unwraps to a bad request failure.
type StatusTransitionError struct {
	From Status
	To   Status
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *StatusTransitionError) Unwrap() error {
	return failure.BadRequestFromString(e.Error())
}
