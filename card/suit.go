package card

type Suit byte

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// String returns the wire spelling of the suit.
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	}
	return "?"
}

func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	}
	return "?"
}

// Suits lists the four suits in deck-building order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}
