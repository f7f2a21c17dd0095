package whist

import "github.com/OColmignoli/colmignoli-whist/card"

// MustFollowSuit reports whether the hand is bound to the led suit:
// true iff a suit has been led and the hand still holds it.
func MustFollowSuit(hand card.CardList, ledSuit card.Suit, hasLed bool) bool {
	return hasLed && hand.HasSuit(ledSuit)
}

// IsLegalPlay reports whether playing hand[cardIndex] is legal against
// the current led suit. Leading is always legal; a follower must play
// the led suit while holding it, and may play anything (trump
// included) once void of it. There is no trump-if-possible obligation.
func IsLegalPlay(hand card.CardList, cardIndex int, ledSuit card.Suit, hasLed bool) bool {
	if cardIndex < 0 || cardIndex >= hand.Count() {
		return false
	}
	if !hasLed {
		return true
	}
	if hand[cardIndex].Suit() == ledSuit {
		return true
	}
	return !hand.HasSuit(ledSuit)
}
