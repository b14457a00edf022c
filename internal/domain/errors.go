package domain

import (
	"errors"
	"fmt"
)

// Validation failures raised synchronously by the assessment core. None
// are retried internally; callers map them to user-facing responses.
var (
	ErrInvalidOption     = errors.New("selected option must be A or B")
	ErrEmptyAnswerSet    = errors.New("cannot score an empty answer set")
	ErrInvalidRating     = errors.New("assessment rating must be between 1 and 5")
	ErrScoreOutOfRange   = errors.New("dimension strength outside [0,1]")
	ErrDimensionMismatch = errors.New("tie-breaker question does not match the tied dimension")
	ErrDimensionNotTied  = errors.New("dimension is not tied")
	ErrNoTieBreaker      = errors.New("no active tie-breaker question for dimension")
)

// IllegalTransitionError reports a state machine guard violation, naming
// both ends of the attempted transition.
type IllegalTransitionError struct {
	From SessionState
	To   SessionState
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal session state transition from %s to %s", e.From, e.To)
}
