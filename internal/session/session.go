// Package session hosts one running game behind an actor: every
// mutation enters through a single event queue, and a heartbeat tick
// drives AI turns and idle accounting.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/OColmignoli/colmignoli-whist/internal/codec"
	"github.com/OColmignoli/colmignoli-whist/internal/ledger"
	"github.com/OColmignoli/colmignoli-whist/whist"
	"github.com/OColmignoli/colmignoli-whist/whist/ai"
)

// Event types for the actor message queue.
type EventType int

const (
	EventJoin EventType = iota
	EventLeave
	EventAddAI
	EventStart
	EventBid
	EventPlay
	EventClose
)

// Event is one message to the session actor.
type Event struct {
	Type      EventType
	PlayerID  string
	Name      string
	Bid       int
	CardIndex int
	Response  chan error
}

var ErrSessionClosed = errors.New("session closed")

const defaultTickInterval = 500 * time.Millisecond

// Config holds session actor knobs. The zero value is usable.
type Config struct {
	// TickInterval is the heartbeat driving AI turns. Tests shrink it.
	TickInterval time.Duration
}

// Session is one game plus its actor goroutine.
type Session struct {
	ID string

	mu       sync.RWMutex
	game     *whist.Game
	closed   bool
	stopOnce sync.Once

	events chan Event
	done   chan struct{}

	// Callback delivering a frame to one player's connection.
	broadcast func(playerID string, data []byte)

	aiMgr  *ai.Manager
	ledger ledger.Service

	// AI turn in flight; cleared when its decision event arrives.
	aiPendingID string

	recorded     bool
	emptySince   time.Time
	lastActivity time.Time
	createdAt    time.Time
}

// New creates a session and starts its actor goroutine.
func New(
	id string,
	cfg Config,
	broadcastFn func(playerID string, data []byte),
	aiMgr *ai.Manager,
	ledgerService ledger.Service,
) (*Session, error) {
	game, err := whist.NewGame(whist.DefaultConfig())
	if err != nil {
		return nil, err
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	s := &Session{
		ID:           id,
		game:         game,
		events:       make(chan Event, 256),
		done:         make(chan struct{}),
		broadcast:    broadcastFn,
		aiMgr:        aiMgr,
		ledger:       ledgerService,
		emptySince:   time.Now(),
		lastActivity: time.Now(),
		createdAt:    time.Now(),
	}
	go s.run(cfg.TickInterval)

	log.Printf("[Session %s] Created", id)
	return s, nil
}

func (s *Session) run(tickInterval time.Duration) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-s.events:
			err := s.handleEvent(event)
			if event.Response != nil {
				event.Response <- err
			}
		case <-ticker.C:
			s.tick()
		case <-s.done:
			log.Printf("[Session %s] Actor stopped", s.ID)
			return
		}
	}
}

func (s *Session) handleEvent(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed && e.Type != EventClose {
		return ErrSessionClosed
	}
	s.lastActivity = time.Now()

	switch e.Type {
	case EventJoin:
		return s.handleJoin(e.PlayerID, e.Name)
	case EventLeave:
		return s.handleLeave(e.PlayerID)
	case EventAddAI:
		return s.handleAddAI()
	case EventStart:
		return s.handleStart()
	case EventBid:
		return s.handleBid(e.PlayerID, e.Bid)
	case EventPlay:
		return s.handlePlay(e.PlayerID, e.CardIndex)
	case EventClose:
		s.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

func (s *Session) handleJoin(playerID, name string) error {
	if err := s.game.AddPlayer(playerID, name, false); err != nil {
		return err
	}
	s.updateEmptySinceLocked()
	log.Printf("[Session %s] Player %s joined", s.ID, playerID)
	s.broadcastFrameLocked(codec.PlayerJoined(s.ID, playerID))
	s.broadcastStateLocked()
	return nil
}

func (s *Session) handleLeave(playerID string) error {
	s.game.RemovePlayer(playerID)
	s.aiMgr.Despawn(playerID)
	s.updateEmptySinceLocked()
	log.Printf("[Session %s] Player %s left", s.ID, playerID)
	s.broadcastFrameLocked(codec.PlayerLeft(s.ID, playerID))
	s.afterMutationLocked()
	return nil
}

func (s *Session) handleAddAI() error {
	inst := s.aiMgr.Spawn()
	if err := s.game.AddPlayer(inst.PlayerID, inst.Name, true); err != nil {
		s.aiMgr.Despawn(inst.PlayerID)
		return err
	}
	s.broadcastFrameLocked(codec.PlayerJoined(s.ID, inst.PlayerID))
	s.broadcastStateLocked()
	return nil
}

func (s *Session) handleStart() error {
	if err := s.game.Start(); err != nil {
		return err
	}
	log.Printf("[Session %s] Game started with %d players", s.ID, s.game.RosterSize())
	s.broadcastStateLocked()
	return nil
}

func (s *Session) handleBid(playerID string, bid int) error {
	if playerID == s.aiPendingID {
		s.aiPendingID = ""
	}
	if err := s.game.MakeBid(playerID, bid); err != nil {
		return err
	}
	s.afterMutationLocked()
	return nil
}

func (s *Session) handlePlay(playerID string, cardIndex int) error {
	if playerID == s.aiPendingID {
		s.aiPendingID = ""
	}
	if err := s.game.PlayCard(playerID, cardIndex); err != nil {
		return err
	}
	s.afterMutationLocked()
	return nil
}

// afterMutationLocked runs the shared post-mutation work: state
// fan-out and the one-shot game-over ledger record.
func (s *Session) afterMutationLocked() {
	s.broadcastStateLocked()

	if s.game.Phase() == whist.PhaseGameOver && !s.recorded {
		s.recorded = true
		res := s.buildResultLocked()
		log.Printf("[Session %s] Game over, recording result", s.ID)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.ledger.RecordResult(ctx, res); err != nil {
				log.Printf("[Session %s] record result failed: %v", s.ID, err)
			}
		}()
	}
}

func (s *Session) buildResultLocked() ledger.Result {
	snap := s.game.Snapshot("")
	standings := make([]ledger.Standing, 0, len(snap.Players))
	for _, ps := range snap.Players {
		standings = append(standings, ledger.Standing{
			PlayerID: ps.ID,
			Name:     ps.Name,
			Score:    ps.Score,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	for i := range standings {
		standings[i].Place = i + 1
	}
	return ledger.Result{
		GameID:     s.ID,
		FinishedAt: time.Now().UTC(),
		// The engine's round counter moves twice per completed round.
		Rounds:    (snap.RoundNumber - 1) / 2,
		Standings: standings,
	}
}

// tick drives AI turns: when the game is waiting on an AI player and
// no decision is already in flight, the strategy runs off-loop and
// its decision comes back through the event queue.
func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.aiPendingID != "" {
		return
	}
	playerID, robot, ok := s.game.CurrentTurn()
	if !ok || !robot {
		return
	}
	inst := s.aiMgr.Get(playerID)
	if inst == nil {
		log.Printf("[Session %s] AI instance missing for %s", s.ID, playerID)
		return
	}

	s.aiPendingID = playerID
	snap := s.game.Snapshot(playerID)
	go func() {
		time.Sleep(inst.ThinkDelay)
		view := ai.ViewFromSnapshot(snap, playerID)

		var event Event
		switch snap.Phase {
		case whist.PhaseBidding:
			event = Event{Type: EventBid, PlayerID: playerID, Bid: s.aiMgr.DecideBid(playerID, view)}
		case whist.PhasePlaying:
			event = Event{Type: EventPlay, PlayerID: playerID, CardIndex: s.aiMgr.DecideCard(playerID, view)}
		default:
			return
		}
		if err := s.SubmitEvent(event); err != nil && !errors.Is(err, ErrSessionClosed) {
			log.Printf("[Session %s] AI %s action rejected: %v", s.ID, playerID, err)
		}
	}()
}

func (s *Session) broadcastStateLocked() {
	for _, p := range s.humanIDsLocked() {
		snap := s.game.Snapshot(p)
		s.broadcast(p, codec.GameStateMessage(s.ID, snap).Encode())
	}
}

func (s *Session) broadcastFrameLocked(msg codec.ServerMessage) {
	data := msg.Encode()
	for _, p := range s.humanIDsLocked() {
		s.broadcast(p, data)
	}
}

func (s *Session) humanIDsLocked() []string {
	snap := s.game.Snapshot("")
	ids := make([]string, 0, len(snap.Players))
	for _, ps := range snap.Players {
		if !ps.Robot {
			ids = append(ids, ps.ID)
		}
	}
	return ids
}

func (s *Session) updateEmptySinceLocked() {
	if s.game.HumanCount() == 0 {
		if s.emptySince.IsZero() {
			s.emptySince = time.Now()
		}
		return
	}
	s.emptySince = time.Time{}
}

// SubmitEvent sends an event to the actor and waits for its result.
func (s *Session) SubmitEvent(e Event) error {
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrSessionClosed
	}

	select {
	case s.events <- e:
	case <-s.done:
		return ErrSessionClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-s.done:
		return ErrSessionClosed
	}
}

// Convenience wrappers over SubmitEvent.

func (s *Session) Join(playerID, name string) error {
	return s.SubmitEvent(Event{Type: EventJoin, PlayerID: playerID, Name: name})
}

func (s *Session) Leave(playerID string) error {
	return s.SubmitEvent(Event{Type: EventLeave, PlayerID: playerID})
}

func (s *Session) AddAI() error {
	return s.SubmitEvent(Event{Type: EventAddAI})
}

func (s *Session) Start() error {
	return s.SubmitEvent(Event{Type: EventStart})
}

func (s *Session) MakeBid(playerID string, bid int) error {
	return s.SubmitEvent(Event{Type: EventBid, PlayerID: playerID, Bid: bid})
}

func (s *Session) PlayCard(playerID string, cardIndex int) error {
	return s.SubmitEvent(Event{Type: EventPlay, PlayerID: playerID, CardIndex: cardIndex})
}

// Snapshot returns the per-viewer game state (thread-safe).
func (s *Session) Snapshot(viewerID string) whist.Snapshot {
	return s.game.Snapshot(viewerID)
}

func (s *Session) Phase() whist.Phase { return s.game.Phase() }

func (s *Session) RosterSize() int { return s.game.RosterSize() }

func (s *Session) HumanCount() int { return s.game.HumanCount() }

// IsIdleFor reports whether the session has been expendable for at
// least ttl: no human members, or no events at all (a dead game kept
// open counts as idle even with humans still bound).
func (s *Session) IsIdleFor(ttl time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return true
	}
	if s.game.HumanCount() == 0 {
		return !s.emptySince.IsZero() && time.Since(s.emptySince) >= ttl
	}
	return time.Since(s.lastActivity) >= ttl
}

func (s *Session) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Stop shuts the actor down and releases the session's AI identities.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Session) stopLocked() {
	if s.closed {
		return
	}
	s.closed = true
	snap := s.game.Snapshot("")
	for _, ps := range snap.Players {
		if ps.Robot {
			s.aiMgr.Despawn(ps.ID)
		}
	}
	s.stopOnce.Do(func() {
		close(s.done)
	})
}
