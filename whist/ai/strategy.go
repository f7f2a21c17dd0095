package ai

import (
	"github.com/OColmignoli/colmignoli-whist/card"
	"github.com/OColmignoli/colmignoli-whist/whist"
)

// GameView is the read-only projection of the session visible to an
// AI player: its own hand plus everything a human client would see.
// Other players' hands are never part of it.
type GameView struct {
	Stage         whist.Stage
	Hand          []card.Card
	Trump         card.Card // CardInvalid when no trump is up
	Trick         []whist.TrickPlay
	LedSuit       card.Suit
	HasLedSuit    bool
	CardsPerRound int
}

// Strategy is the decision interface all AI types implement.
type Strategy interface {
	// BidFor is called once per round during the bidding phase.
	BidFor(view GameView) int
	// ChooseCard returns the hand index to play on the AI's turn.
	ChooseCard(view GameView) int
	// Name returns a human-readable identifier for debugging.
	Name() string
}

// ViewFromSnapshot extracts an AI player's GameView from its own
// per-viewer snapshot.
func ViewFromSnapshot(snap whist.Snapshot, playerID string) GameView {
	view := GameView{
		Stage:         snap.Stage,
		Trump:         snap.TrumpCard,
		Trick:         snap.Trick,
		LedSuit:       snap.LedSuit,
		HasLedSuit:    snap.HasLedSuit,
		CardsPerRound: snap.CardsPerRound,
	}
	for _, ps := range snap.Players {
		if ps.ID == playerID {
			view.Hand = ps.Hand
			break
		}
	}
	return view
}
