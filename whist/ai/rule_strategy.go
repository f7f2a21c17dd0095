package ai

import (
	"math"

	"github.com/OColmignoli/colmignoli-whist/card"
	"github.com/OColmignoli/colmignoli-whist/whist"
)

// RuleStrategy is the heuristic player: bid from per-card weights,
// lead high off-trump, win tricks as cheaply as possible, dump the
// lowest card when a trick can't be won.
type RuleStrategy struct{}

func (RuleStrategy) Name() string { return "rule" }

const (
	rankAce   = 1
	rankJack  = 11
	rankQueen = 12
	rankKing  = 13
)

// BidFor sums a per-card weight and rounds to the nearest whole
// trick, floored at 0.
func (RuleStrategy) BidFor(view GameView) int {
	trumpActive := view.Stage != whist.StageNoTrump && view.Trump != card.CardInvalid
	trumpSuit := view.Trump.Suit()

	weight := 0.0
	for _, c := range view.Hand {
		weight += cardWeight(c, trumpActive, trumpSuit)
	}
	bid := int(math.Round(weight))
	if bid < 0 {
		bid = 0
	}
	return bid
}

func cardWeight(c card.Card, trumpActive bool, trumpSuit card.Suit) float64 {
	r := c.Rank()
	if !trumpActive {
		switch r {
		case rankAce:
			return 1.0
		case rankKing:
			return 0.8
		case rankQueen:
			return 0.5
		case rankJack:
			return 0.3
		}
		return 0
	}
	if c.Suit() == trumpSuit {
		if r == rankAce || r >= rankJack {
			return 1.0
		}
		return 0.5
	}
	switch r {
	case rankAce, rankKing:
		return 0.8
	case rankQueen, rankJack:
		return 0.4
	}
	return 0
}

// ChooseCard picks a hand index among this turn's legal plays.
func (RuleStrategy) ChooseCard(view GameView) int {
	hand := card.CardList(view.Hand)
	trumpActive := view.Stage != whist.StageNoTrump && view.Trump != card.CardInvalid
	trumpSuit := view.Trump.Suit()
	isTrump := func(c card.Card) bool { return trumpActive && c.Suit() == trumpSuit }

	if len(view.Trick) == 0 {
		return chooseLead(hand, isTrump)
	}

	playable := make([]int, 0, hand.Count())
	for i := range hand {
		if whist.IsLegalPlay(hand, i, view.LedSuit, view.HasLedSuit) {
			playable = append(playable, i)
		}
	}
	if len(playable) == 0 {
		return 0
	}

	if view.HasLedSuit && !hand.HasSuit(view.LedSuit) {
		// Void of the led suit: ruff with the cheapest trump, else
		// whatever goes first.
		best := -1
		for _, i := range playable {
			if isTrump(hand[i]) && (best < 0 || hand[i].Power() < hand[best].Power()) {
				best = i
			}
		}
		if best >= 0 {
			return best
		}
		return playable[0]
	}

	// Card-to-beat: the trick's max under the (is-trump, power) key.
	high := view.Trick[0].Card
	for _, play := range view.Trick[1:] {
		if overtakes(play.Card, high, isTrump) {
			high = play.Card
		}
	}
	beats := func(c card.Card) bool {
		if isTrump(c) != isTrump(high) {
			return isTrump(c)
		}
		return c.Power() > high.Power()
	}

	winIdx, dumpIdx := -1, -1
	for _, i := range playable {
		c := hand[i]
		if beats(c) && (winIdx < 0 || c.Power() < hand[winIdx].Power()) {
			winIdx = i
		}
		if dumpIdx < 0 || c.Power() < hand[dumpIdx].Power() {
			dumpIdx = i
		}
	}
	if winIdx >= 0 {
		// Win as cheaply as possible.
		return winIdx
	}
	// Minimize the loss.
	return dumpIdx
}

func chooseLead(hand card.CardList, isTrump func(card.Card) bool) int {
	for i, c := range hand {
		if !isTrump(c) && (c.Rank() == rankAce || c.Rank() == rankKing) {
			return i
		}
	}
	// No high off-trump card: lead the weakest card, preferring
	// non-trump over trump.
	best := 0
	for i := 1; i < hand.Count(); i++ {
		if leadKeyLess(hand[i], hand[best], isTrump) {
			best = i
		}
	}
	return best
}

func leadKeyLess(a, b card.Card, isTrump func(card.Card) bool) bool {
	if isTrump(a) != isTrump(b) {
		return !isTrump(a)
	}
	return a.Power() < b.Power()
}

// overtakes orders trick cards by the (is-trump, power) key.
func overtakes(c, high card.Card, isTrump func(card.Card) bool) bool {
	if isTrump(c) != isTrump(high) {
		return isTrump(c)
	}
	return c.Power() > high.Power()
}
