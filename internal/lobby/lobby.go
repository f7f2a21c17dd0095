// Package lobby is the session directory: it creates sessions, maps
// players to them, lists joinable games, and reaps sessions left
// without human members.
package lobby

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/OColmignoli/colmignoli-whist/internal/codec"
	"github.com/OColmignoli/colmignoli-whist/internal/ledger"
	"github.com/OColmignoli/colmignoli-whist/internal/session"
	"github.com/OColmignoli/colmignoli-whist/whist/ai"
)

const (
	defaultIdleTTL      = 5 * time.Minute
	defaultReapInterval = 30 * time.Second
)

// Config holds directory knobs. Zero values get defaults.
type Config struct {
	Session      session.Config
	IdleTTL      time.Duration
	ReapInterval time.Duration
}

// Lobby is the session directory.
type Lobby struct {
	mu            sync.RWMutex
	sessions      map[string]*session.Session
	playerSession map[string]string

	cfg      Config
	aiMgr    *ai.Manager
	ledger   ledger.Service
	done     chan struct{}
	stopOnce sync.Once
}

// New creates the directory and starts its reaper goroutine.
func New(cfg Config, ledgerService ledger.Service) *Lobby {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = defaultReapInterval
	}
	l := &Lobby{
		sessions:      make(map[string]*session.Session),
		playerSession: make(map[string]string),
		cfg:           cfg,
		aiMgr:         ai.NewManager(),
		ledger:        ledgerService,
		done:          make(chan struct{}),
	}
	go l.reapLoop()
	return l
}

// CreateSession makes a new session wired to broadcastFn for frame
// delivery.
func (l *Lobby) CreateSession(broadcastFn func(playerID string, data []byte)) (*session.Session, error) {
	id := uuid.NewString()
	s, err := session.New(id, l.cfg.Session, broadcastFn, l.aiMgr, l.ledger)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.sessions[id] = s
	l.mu.Unlock()

	log.Printf("[Lobby] Session %s created, total: %d", id, l.SessionCount())
	return s, nil
}

// Get returns a session by id, or nil.
func (l *Lobby) Get(sessionID string) *session.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sessions[sessionID]
}

// FindByPlayer returns the session a player is bound to, or nil.
func (l *Lobby) FindByPlayer(playerID string) *session.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.playerSession[playerID]
	if !ok {
		return nil
	}
	return l.sessions[id]
}

// Bind records which session a player belongs to. Called after a
// successful join.
func (l *Lobby) Bind(playerID, sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.playerSession[playerID] = sessionID
}

func (l *Lobby) Unbind(playerID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.playerSession, playerID)
}

// List returns a summary of every live session.
func (l *Lobby) List() []codec.GameSummary {
	l.mu.RLock()
	sessions := make([]*session.Session, 0, len(l.sessions))
	for _, s := range l.sessions {
		sessions = append(sessions, s)
	}
	l.mu.RUnlock()

	out := make([]codec.GameSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, codec.GameSummary{
			GameID:  s.ID,
			Phase:   s.Phase().String(),
			Players: s.RosterSize(),
			Humans:  s.HumanCount(),
		})
	}
	return out
}

// Disconnect removes a player from their session. A session with no
// human members left is torn down immediately.
func (l *Lobby) Disconnect(playerID string) {
	s := l.FindByPlayer(playerID)
	l.Unbind(playerID)
	if s == nil {
		return
	}
	if err := s.Leave(playerID); err != nil {
		log.Printf("[Lobby] Leave failed for %s: %v", playerID, err)
	}
	if s.HumanCount() == 0 {
		l.remove(s)
	}
}

func (l *Lobby) remove(s *session.Session) {
	l.mu.Lock()
	delete(l.sessions, s.ID)
	for playerID, sessionID := range l.playerSession {
		if sessionID == s.ID {
			delete(l.playerSession, playerID)
		}
	}
	l.mu.Unlock()

	s.Stop()
	log.Printf("[Lobby] Session %s removed, total: %d", s.ID, l.SessionCount())
}

func (l *Lobby) SessionCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}

func (l *Lobby) reapLoop() {
	ticker := time.NewTicker(l.cfg.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.reap()
		case <-l.done:
			return
		}
	}
}

func (l *Lobby) reap() {
	l.mu.RLock()
	idle := make([]*session.Session, 0)
	for _, s := range l.sessions {
		if s.IsIdleFor(l.cfg.IdleTTL) {
			idle = append(idle, s)
		}
	}
	l.mu.RUnlock()

	for _, s := range idle {
		log.Printf("[Lobby] Reaping idle session %s", s.ID)
		l.remove(s)
	}
}

// Shutdown stops the reaper and every live session.
func (l *Lobby) Shutdown() {
	l.stopOnce.Do(func() {
		close(l.done)
	})

	l.mu.Lock()
	sessions := make([]*session.Session, 0, len(l.sessions))
	for _, s := range l.sessions {
		sessions = append(sessions, s)
	}
	l.sessions = make(map[string]*session.Session)
	l.playerSession = make(map[string]string)
	l.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
}
