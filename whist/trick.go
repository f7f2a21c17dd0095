package whist

import "github.com/OColmignoli/colmignoli-whist/card"

// resolveTrick folds over the plays in play order and returns the
// winning player's id. ledSuit is the suit led when the trick opened;
// it is passed in rather than read from trick[0] because the leader's
// entry may have been dropped by a mid-trick removal.
//
// Off-trump comparison: the led suit beats other suits, higher power
// wins within a suit, and cards of two different non-led suits never
// overtake each other. With a trump up, any trump beats any non-trump
// and trumps compare by power.
func resolveTrick(trick []TrickPlay, trump card.Card, noTrump bool, ledSuit card.Suit) string {
	winID := trick[0].PlayerID
	winCard := trick[0].Card

	trumpActive := !noTrump && trump != card.CardInvalid
	trumpSuit := trump.Suit()

	for _, play := range trick[1:] {
		c := play.Card
		if !trumpActive || (c.Suit() != trumpSuit && winCard.Suit() != trumpSuit) {
			if c.Suit() == ledSuit && winCard.Suit() != ledSuit {
				winID, winCard = play.PlayerID, c
			} else if c.Suit() == winCard.Suit() && c.Power() > winCard.Power() {
				winID, winCard = play.PlayerID, c
			}
			continue
		}
		if c.Suit() == trumpSuit && winCard.Suit() != trumpSuit {
			winID, winCard = play.PlayerID, c
		} else if c.Suit() == trumpSuit && winCard.Suit() == trumpSuit && c.Power() > winCard.Power() {
			winID, winCard = play.PlayerID, c
		}
	}
	return winID
}
