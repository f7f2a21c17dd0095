package card

import "math/rand"

// CardList is an ordered hand or pile of cards.
type CardList []Card

func (cl CardList) Count() int {
	return len(cl)
}

func (cl *CardList) Add(cards ...Card) {
	*cl = append(*cl, cards...)
}

// RemoveAt removes and returns the card at the given index, shifting
// later cards forward. Returns CardInvalid for an out-of-range index.
func (cl *CardList) RemoveAt(index int) Card {
	if index < 0 || index >= len(*cl) {
		return CardInvalid
	}
	c := (*cl)[index]
	*cl = append((*cl)[:index], (*cl)[index+1:]...)
	return c
}

// HasSuit reports whether the list holds at least one card of the suit.
func (cl CardList) HasSuit(s Suit) bool {
	for _, c := range cl {
		if c.Suit() == s {
			return true
		}
	}
	return false
}

func (cl CardList) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(cl), func(i, j int) {
		cl[i], cl[j] = cl[j], cl[i]
	})
}

// Copy returns an independent copy of the list.
func (cl CardList) Copy() CardList {
	out := make(CardList, len(cl))
	copy(out, cl)
	return out
}
