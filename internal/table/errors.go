package table

import "errors"

var (
	// ErrTableFull is returned when a join would exceed the seat capacity.
	ErrTableFull = errors.New("table is full")

	// ErrAlreadySeated is returned when a player id is already at the table.
	ErrAlreadySeated = errors.New("player already seated")

	// ErrUnknownPlayer is returned when an operation names a player who is
	// not seated at the table.
	ErrUnknownPlayer = errors.New("player not seated at table")

	// ErrNotYourTurn is returned when a turn action arrives from a player
	// other than the current turn holder.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrNotConfirmed is returned when a player bets before confirming they
	// are in for the next round.
	ErrNotConfirmed = errors.New("next round not confirmed")

	// ErrUnknownAction is returned for an action outside hit/stand/double.
	ErrUnknownAction = errors.New("unknown action")
)
