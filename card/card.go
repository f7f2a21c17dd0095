package card

import "fmt"

// Card is a single playing card packed into one byte.
//
// Encoding:
// - high 4 bits: suit (0:Hearts, 1:Diamonds, 2:Clubs, 3:Spades)
// - low 4 bits: rank (1:A, 2..10, 11:J, 12:Q, 13:K)
type Card byte

const CardInvalid Card = 0

// Rank returns the raw rank value 1-13 (A=1, K=13).
func (c Card) Rank() byte {
	if c == CardInvalid {
		return 0
	}
	return byte(c & 0x0F)
}

// Suit returns the card's suit.
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

// Power returns the card's zero-based strength in ascending rank
// order: 2 is weakest (0), ace is strongest (12).
func (c Card) Power() int {
	r := int(c & 0x0F)
	if r == 1 {
		return 12
	}
	return r - 2
}

// RankName returns the rank as the client-facing string ("2".."10",
// "J", "Q", "K", "A").
func (c Card) RankName() string {
	switch r := c.Rank(); r {
	case 1:
		return "A"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	default:
		return fmt.Sprintf("%d", r)
	}
}

func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}
	return c.RankName() + c.Suit().Symbol()
}

// Parse converts a string such as "AS", "10h" or "Qd" (rank then suit
// letter) into a Card.
func Parse(s string) (Card, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid card string: %q", s)
	}

	var suitBase Card
	switch s[len(s)-1] {
	case 'h', 'H':
		suitBase = 0x00
	case 'd', 'D':
		suitBase = 0x10
	case 'c', 'C':
		suitBase = 0x20
	case 's', 'S':
		suitBase = 0x30
	default:
		return 0, fmt.Errorf("invalid suit: %c", s[len(s)-1])
	}

	var rankVal Card
	switch s[:len(s)-1] {
	case "A", "a":
		rankVal = 0x01
	case "2":
		rankVal = 0x02
	case "3":
		rankVal = 0x03
	case "4":
		rankVal = 0x04
	case "5":
		rankVal = 0x05
	case "6":
		rankVal = 0x06
	case "7":
		rankVal = 0x07
	case "8":
		rankVal = 0x08
	case "9":
		rankVal = 0x09
	case "10", "T", "t":
		rankVal = 0x0A
	case "J", "j":
		rankVal = 0x0B
	case "Q", "q":
		rankVal = 0x0C
	case "K", "k":
		rankVal = 0x0D
	default:
		return 0, fmt.Errorf("invalid rank: %s", s[:len(s)-1])
	}

	return suitBase + rankVal, nil
}

// MustParse is Parse for test fixtures and tables; it panics on bad
// input.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}
