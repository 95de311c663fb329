package game

import "errors"

var (
	// ErrWrongState is returned when an action is not legal in the round's
	// current state, such as hitting before a bet is placed.
	ErrWrongState = errors.New("action not allowed in current state")

	// ErrBetOutOfRange is returned when a bet falls outside [MinBet, MaxBet].
	ErrBetOutOfRange = errors.New("bet out of range")

	// ErrInsufficientBalance is returned when the player cannot cover a bet
	// or the additional stake for a double down.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDoubleAfterAction is returned when a double down is attempted after
	// the player has already hit.
	ErrDoubleAfterAction = errors.New("double down only allowed as first action")
)
