package game

import "fmt"

// Outcome represents the result of a resolved round for one player.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePlayerBlackjack
	OutcomeDealerBlackjack
	OutcomePlayerBust
	OutcomeDealerBust
	OutcomePlayerWin
	OutcomeDealerWin
	OutcomePush
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomePlayerBlackjack:
		return "player_blackjack"
	case OutcomeDealerBlackjack:
		return "dealer_blackjack"
	case OutcomePlayerBust:
		return "player_bust"
	case OutcomeDealerBust:
		return "dealer_bust"
	case OutcomePlayerWin:
		return "player_win"
	case OutcomeDealerWin:
		return "dealer_win"
	case OutcomePush:
		return "push"
	default:
		return "unknown"
	}
}

// Message returns the display text for the outcome given the round's bet.
func (o Outcome) Message(bet int) string {
	switch o {
	case OutcomePlayerBlackjack:
		return fmt.Sprintf("Blackjack! You win $%d!", bet*3/2)
	case OutcomeDealerBlackjack:
		return "Dealer has Blackjack. You lose."
	case OutcomePlayerBust:
		return "Bust! You lose."
	case OutcomeDealerBust:
		return fmt.Sprintf("Dealer busts! You win $%d!", bet)
	case OutcomePlayerWin:
		return fmt.Sprintf("You win $%d!", bet)
	case OutcomeDealerWin:
		return "Dealer wins. You lose."
	case OutcomePush:
		return "Push. Bet returned."
	default:
		return ""
	}
}

// blackjackPayout is the total credit for a natural: the bet back plus the
// 3:2 winnings, floored.
func blackjackPayout(bet int) int {
	return bet + bet*3/2
}

// Resolve maps a player hand, the final dealer hand and the player's bet to
// an outcome and the amount credited back to the player's balance. The bet
// has already been debited, so a loss credits nothing, a push credits the
// bet and a win credits twice the bet.
//
// A player who busted lost when it happened, and a natural never loses to a
// non-natural 21, so those two cases short-circuit the numeric comparison.
func Resolve(player, dealer *Hand, bet int) (Outcome, int) {
	if player.IsBusted() {
		return OutcomePlayerBust, 0
	}

	if player.IsBlackjack() {
		if dealer.IsBlackjack() {
			return OutcomePush, bet
		}
		return OutcomePlayerBlackjack, blackjackPayout(bet)
	}

	if dealer.IsBlackjack() {
		return OutcomeDealerBlackjack, 0
	}

	if dealer.IsBusted() {
		return OutcomeDealerBust, bet * 2
	}

	switch ps, ds := player.Score(), dealer.Score(); {
	case ps > ds:
		return OutcomePlayerWin, bet * 2
	case ps < ds:
		return OutcomeDealerWin, 0
	default:
		return OutcomePush, bet
	}
}
