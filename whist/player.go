package whist

import "github.com/OColmignoli/colmignoli-whist/card"

type Player struct {
	ID    string
	Name  string
	Robot bool

	hand      card.CardList
	score     int
	tricksWon int
	bid       *int
}

func (p *Player) IsRobot() bool { return p.Robot }

func (p *Player) Hand() card.CardList { return p.hand }
func (p *Player) Score() int          { return p.score }
func (p *Player) TricksWon() int      { return p.tricksWon }

// Bid returns the declared bid; ok is false until the player has bid
// this round.
func (p *Player) Bid() (bid int, ok bool) {
	if p.bid == nil {
		return 0, false
	}
	return *p.bid, true
}

func (p *Player) resetForRound() {
	p.hand = nil
	p.tricksWon = 0
	p.bid = nil
}

func (p *Player) addHandCard(cards ...card.Card) {
	p.hand.Add(cards...)
}

func (p *Player) removeHandCard(index int) card.Card {
	return p.hand.RemoveAt(index)
}

func (p *Player) setBid(bid int)  { b := bid; p.bid = &b }
func (p *Player) addScore(n int)  { p.score += n }
func (p *Player) addTrickWon()    { p.tricksWon++ }
