package game

// State represents a phase of a blackjack round.
type State int

const (
	StateWaitingForBet State = iota
	StateDealing
	StatePlayerTurn
	StateDealerTurn
	StateRoundOver
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateWaitingForBet:
		return "waiting_for_bet"
	case StateDealing:
		return "dealing"
	case StatePlayerTurn:
		return "player_turn"
	case StateDealerTurn:
		return "dealer_turn"
	case StateRoundOver:
		return "round_over"
	default:
		return "unknown"
	}
}
