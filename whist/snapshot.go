package whist

import (
	"time"

	"github.com/OColmignoli/colmignoli-whist/card"
)

// PlayerSnapshot is one roster member as seen by a particular viewer.
// Hand contents are only populated for the viewer themselves; everyone
// else is reduced to a card count.
type PlayerSnapshot struct {
	ID        string
	Name      string
	Robot     bool
	CardCount int
	Hand      []card.Card
	Score     int
	TricksWon int
	Bid       *int
}

// Snapshot is an immutable per-viewer projection of the session state.
type Snapshot struct {
	Phase         Phase
	Stage         Stage
	RoundNumber   int
	CardsPerRound int
	NoTrumpRounds int

	TrumpCard  card.Card // CardInvalid when no trump is up
	LedSuit    card.Suit
	HasLedSuit bool

	CurrentPlayer string // empty outside bidding/playing
	Dealer        string

	Trick   []TrickPlay
	Players []PlayerSnapshot

	CreatedAt time.Time
}

// Snapshot builds the projection visible to viewerID. It is a pure
// function of (game, viewer); nothing per-viewer is cached.
func (g *Game) Snapshot(viewerID string) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		Phase:         g.phase,
		Stage:         g.stage,
		RoundNumber:   g.roundNumber,
		CardsPerRound: g.cardsPerRound,
		NoTrumpRounds: g.noTrumpRounds,
		TrumpCard:     g.trump,
		LedSuit:       g.ledSuit,
		HasLedSuit:    g.hasLed,
		Trick:         append([]TrickPlay(nil), g.trick...),
		CreatedAt:     g.createdAt,
	}
	if n := len(g.players); n > 0 {
		s.Dealer = g.players[g.dealerIdx%n].ID
		if g.phase == PhaseBidding || g.phase == PhasePlaying {
			s.CurrentPlayer = g.players[g.currentIdx%n].ID
		}
	}

	for _, p := range g.players {
		ps := PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Robot:     p.Robot,
			CardCount: p.hand.Count(),
			Score:     p.score,
			TricksWon: p.tricksWon,
		}
		if p.bid != nil {
			bid := *p.bid
			ps.Bid = &bid
		}
		if p.ID == viewerID {
			ps.Hand = append([]card.Card(nil), p.hand...)
		}
		s.Players = append(s.Players, ps)
	}
	return s
}
