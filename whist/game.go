package whist

import (
	"math/rand"
	"sync"
	"time"

	"github.com/OColmignoli/colmignoli-whist/card"
)

// TrickPlay is one card played into the current trick. Slice order is
// play order.
type TrickPlay struct {
	PlayerID string
	Card     card.Card
}

// Game is the session state machine: roster, dealing, bidding, trick
// play, scoring and stage progression. All exported methods are
// serialized on an internal mutex; a method either mutates the state
// fully or rejects the action with no change.
type Game struct {
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	players []*Player // insertion order = turn order
	byID    map[string]*Player

	deck  *card.Deck
	trump card.Card // CardInvalid while no trump is up

	trick   []TrickPlay
	ledSuit card.Suit
	hasLed  bool

	dealerIdx     int
	currentIdx    int
	roundNumber   int
	cardsPerRound int
	stage         Stage
	noTrumpRounds int
	phase         Phase

	createdAt time.Time
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	return &Game{
		cfg:           cfg,
		rng:           rng,
		byID:          make(map[string]*Player, cfg.MaxPlayers),
		deck:          card.NewDeck(rng),
		trump:         card.CardInvalid,
		roundNumber:   1,
		cardsPerRound: 1,
		stage:         StageAscending,
		phase:         PhaseWaiting,
		createdAt:     time.Now(),
	}, nil
}

// AddPlayer appends a player to the roster. Membership is only open
// while the session is waiting.
func (g *Game) AddPlayer(id, name string, robot bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseWaiting {
		return ErrGameStarted
	}
	if len(g.players) >= g.cfg.MaxPlayers {
		return ErrRosterFull
	}
	if g.byID[id] != nil {
		return ErrDuplicatePlayer
	}
	if name == "" {
		name = id
	}
	p := &Player{ID: id, Name: name, Robot: robot}
	g.players = append(g.players, p)
	g.byID[id] = p
	return nil
}

// RemovePlayer drops a player from the roster and every per-player
// structure. It never fails; removing an unknown id is a no-op.
// Gameplay continues with the remaining roster: if it was the removed
// player's turn, the turn passes on, and a trick that becomes full by
// shrinkage resolves immediately.
func (g *Game) RemovePlayer(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.byID[id]
	if p == nil {
		return
	}
	idx := g.indexOfLocked(id)
	delete(g.byID, id)
	g.players = append(g.players[:idx], g.players[idx+1:]...)

	for i, play := range g.trick {
		if play.PlayerID == id {
			g.trick = append(g.trick[:i], g.trick[i+1:]...)
			break
		}
	}
	if len(g.trick) == 0 {
		g.hasLed = false
	}

	n := len(g.players)
	if n == 0 {
		return
	}
	if idx < g.dealerIdx {
		g.dealerIdx--
	}
	g.dealerIdx %= n
	if idx < g.currentIdx {
		g.currentIdx--
	}
	g.currentIdx %= n

	switch g.phase {
	case PhaseBidding:
		if g.allBidLocked() {
			g.phase = PhasePlaying
			g.currentIdx = (g.dealerIdx + 1) % n
		}
	case PhasePlaying:
		if len(g.trick) > 0 && len(g.trick) == n {
			g.finishTrickLocked()
		}
	}
}

// Start freezes membership and deals round 1.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseWaiting {
		return ErrGameStarted
	}
	if len(g.players) < g.cfg.MinPlayers {
		return ErrNotEnoughPlayers
	}
	g.beginRoundLocked()
	return nil
}

// MakeBid records the current player's bid for this round.
func (g *Game) MakeBid(playerID string, bid int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseBidding {
		return ErrWrongPhase
	}
	p := g.byID[playerID]
	if p == nil {
		return ErrUnknownPlayer
	}
	if g.players[g.currentIdx] != p {
		return ErrOutOfTurn
	}
	if bid < 0 || bid > g.cardsPerRound {
		return ErrBidOutOfRange
	}

	p.setBid(bid)
	g.currentIdx = (g.currentIdx + 1) % len(g.players)

	if g.allBidLocked() {
		// Play leads left of the dealer, same as bidding did.
		g.phase = PhasePlaying
		g.currentIdx = (g.dealerIdx + 1) % len(g.players)
	}
	return nil
}

// PlayCard plays the card at cardIndex from the current player's hand
// into the trick.
func (g *Game) PlayCard(playerID string, cardIndex int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlaying {
		return ErrWrongPhase
	}
	p := g.byID[playerID]
	if p == nil {
		return ErrUnknownPlayer
	}
	if g.players[g.currentIdx] != p {
		return ErrOutOfTurn
	}
	if cardIndex < 0 || cardIndex >= p.hand.Count() {
		return ErrInvalidCardIndex
	}
	if !IsLegalPlay(p.hand, cardIndex, g.ledSuit, g.hasLed) {
		return ErrMustFollowSuit
	}

	c := p.removeHandCard(cardIndex)
	if !g.hasLed {
		g.ledSuit = c.Suit()
		g.hasLed = true
	}
	g.trick = append(g.trick, TrickPlay{PlayerID: playerID, Card: c})

	if len(g.trick) == len(g.players) {
		g.finishTrickLocked()
	} else {
		g.currentIdx = (g.currentIdx + 1) % len(g.players)
	}
	return nil
}

// CurrentTurn reports whose action the session is waiting on. ok is
// false outside the bidding and playing phases.
func (g *Game) CurrentTurn() (playerID string, robot bool, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseBidding && g.phase != PhasePlaying {
		return "", false, false
	}
	if len(g.players) == 0 {
		return "", false, false
	}
	p := g.players[g.currentIdx]
	return p.ID, p.Robot, true
}

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// HumanCount returns the number of non-robot roster members.
func (g *Game) HumanCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, p := range g.players {
		if !p.Robot {
			n++
		}
	}
	return n
}

func (g *Game) RosterSize() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// --- round machinery ---

// beginRoundLocked deals and opens bidding at the current
// cardsPerRound. Also used for round 1 from Start.
func (g *Game) beginRoundLocked() {
	g.deck.Reset()
	g.trick = nil
	g.hasLed = false
	for _, p := range g.players {
		p.resetForRound()
	}

	for _, p := range g.players {
		for i := 0; i < g.cardsPerRound; i++ {
			c, ok := g.deck.Draw()
			if !ok {
				// cardsPerRound*rosterSize <= 52 holds by stage math;
				// running dry here is a progression defect.
				panic(ErrInvalidState("deck exhausted during deal"))
			}
			p.addHandCard(c)
		}
	}

	g.trump = card.CardInvalid
	if g.stage != StageNoTrump {
		// A maximal deal (e.g. 4 players x 13 cards) consumes the whole
		// deck; the round is then played without a trump card.
		if c, ok := g.deck.Draw(); ok {
			g.trump = c
		}
	}

	n := len(g.players)
	g.dealerIdx = (g.dealerIdx + 1) % n
	g.currentIdx = (g.dealerIdx + 1) % n
	g.phase = PhaseBidding
	g.roundNumber++
}

// advanceRoundLocked moves the stage machine one round forward and
// reports whether another round should be dealt. The ascending climb
// is capped at floor(52/rosterSize); the no-trump block then runs for
// exactly rosterSize rounds at that size before the descent back to 1.
func (g *Game) advanceRoundLocked() bool {
	maxCards := DeckSize / len(g.players)

	switch g.stage {
	case StageAscending:
		g.cardsPerRound++
		if g.cardsPerRound > maxCards {
			g.stage = StageNoTrump
			g.cardsPerRound = maxCards
			g.noTrumpRounds = 1
		}
	case StageNoTrump:
		if g.noTrumpRounds >= len(g.players) {
			g.stage = StageDescending
			g.cardsPerRound--
		} else {
			g.noTrumpRounds++
		}
	case StageDescending:
		g.cardsPerRound--
	}

	if g.cardsPerRound < 1 {
		g.phase = PhaseGameOver
		return false
	}
	return true
}

func (g *Game) finishTrickLocked() {
	winnerID := resolveTrick(g.trick, g.trump, g.stage == StageNoTrump, g.ledSuit)
	g.trick = nil
	g.hasLed = false

	winner := g.byID[winnerID]
	if winner == nil {
		panic(ErrInvalidState("trick winner not in roster"))
	}
	winner.addTrickWon()
	// Trick winner leads the next trick.
	g.currentIdx = g.indexOfLocked(winnerID)

	if g.allHandsEmptyLocked() {
		g.scoreRoundLocked()
		g.roundNumber++
		if g.advanceRoundLocked() {
			g.beginRoundLocked()
		}
	}
}

func (g *Game) scoreRoundLocked() {
	for _, p := range g.players {
		bid, ok := p.Bid()
		if ok && p.tricksWon == bid {
			p.addScore(10 + 2*p.tricksWon)
		} else {
			p.addScore(2 * p.tricksWon)
		}
	}
}

func (g *Game) allBidLocked() bool {
	for _, p := range g.players {
		if p.bid == nil {
			return false
		}
	}
	return len(g.players) > 0
}

func (g *Game) allHandsEmptyLocked() bool {
	for _, p := range g.players {
		if p.hand.Count() > 0 {
			return false
		}
	}
	return true
}

func (g *Game) indexOfLocked(playerID string) int {
	for i, p := range g.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}
