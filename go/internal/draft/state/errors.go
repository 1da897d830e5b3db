package state

import "errors"

var (
	// ErrOutOfOrderPick is returned when a pick's number is not the next
	// expected pick. The state is left untouched.
	ErrOutOfOrderPick = errors.New("pick is out of order")
	// ErrDraftComplete is returned when a pick arrives after the last pick.
	ErrDraftComplete = errors.New("draft is already complete")
)
