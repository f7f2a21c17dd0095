package card

import "math/rand"

// FullDeck lists the 52 cards of a standard deck in suit order.
var FullDeck = []Card{
	CardHeartA, CardHeart2, CardHeart3, CardHeart4, CardHeart5, CardHeart6, CardHeart7,
	CardHeart8, CardHeart9, CardHeartT, CardHeartJ, CardHeartQ, CardHeartK,
	CardDiamondA, CardDiamond2, CardDiamond3, CardDiamond4, CardDiamond5, CardDiamond6, CardDiamond7,
	CardDiamond8, CardDiamond9, CardDiamondT, CardDiamondJ, CardDiamondQ, CardDiamondK,
	CardClubA, CardClub2, CardClub3, CardClub4, CardClub5, CardClub6, CardClub7,
	CardClub8, CardClub9, CardClubT, CardClubJ, CardClubQ, CardClubK,
	CardSpadeA, CardSpade2, CardSpade3, CardSpade4, CardSpade5, CardSpade6, CardSpade7,
	CardSpade8, CardSpade9, CardSpadeT, CardSpadeJ, CardSpadeQ, CardSpadeK,
}

// Deck is a shuffled draw pile of the 52 standard cards.
type Deck struct {
	cards CardList
	rng   *rand.Rand
}

func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// Reset rebuilds the full 52-card pile in a fresh shuffled order.
func (d *Deck) Reset() {
	d.cards = make(CardList, len(FullDeck))
	copy(d.cards, FullDeck)
	d.cards.Shuffle(d.rng)
}

// Draw removes and returns the top card. The second return is false
// once the pile is exhausted.
func (d *Deck) Draw() (Card, bool) {
	n := len(d.cards)
	if n == 0 {
		return CardInvalid, false
	}
	c := d.cards[n-1]
	d.cards = d.cards[:n-1]
	return c, true
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}
