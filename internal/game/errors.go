package game

import (
	"errors"
	"fmt"
)

// ErrIllegalAction is wrapped by every rejected action. A rejected action never changes state.
var ErrIllegalAction = errors.New("illegal action")

var (
	ErrOutOfTurn      = fmt.Errorf("%w: out of turn", ErrIllegalAction)
	ErrCannotAct      = fmt.Errorf("%w: seat cannot act", ErrIllegalAction)
	ErrCannotCheck    = fmt.Errorf("%w: cannot check facing a bet", ErrIllegalAction)
	ErrRaiseTooSmall  = fmt.Errorf("%w: raise below minimum", ErrIllegalAction)
	ErrRaiseTooLarge  = fmt.Errorf("%w: raise exceeds stack", ErrIllegalAction)
	ErrHandOver       = fmt.Errorf("%w: hand is over", ErrIllegalAction)
	ErrUnknownAction  = fmt.Errorf("%w: unknown action", ErrIllegalAction)
	ErrNoHandInPlay   = errors.New("no hand in progress")
	ErrHandInProgress = errors.New("hand already in progress")
	ErrGameOver       = errors.New("game over")
	ErrNotEnoughSeats = errors.New("at least two seats with chips are required")
)

// InvariantError reports corrupted chip accounting. It indicates a logic defect and
// the hand must not continue.
type InvariantError struct {
	HandID string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("hand %s: invariant violated: %s", e.HandID, e.Reason)
}
