package ai

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"
)

// Instance is one active AI identity seated in a session.
type Instance struct {
	PlayerID   string
	Name       string
	Strategy   Strategy
	ThinkDelay time.Duration
}

// Manager tracks AI identities across sessions and answers turn
// queries for them.
type Manager struct {
	mu        sync.RWMutex
	instances map[string]*Instance
	rng       *rand.Rand
	nextID    uint64

	fixedDelay    time.Duration
	hasFixedDelay bool
}

var botNames = []string{
	"Ada", "Blaise", "Carl", "Emmy", "Evariste", "Grace",
	"Kurt", "Leonhard", "Pierre", "Sofia",
}

func NewManager() *Manager {
	return &Manager{
		instances: make(map[string]*Instance),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Spawn creates a new AI identity. The caller is responsible for
// seating it in a game roster.
func (m *Manager) Spawn() *Instance {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	name := botNames[m.rng.Intn(len(botNames))]
	inst := &Instance{
		PlayerID: fmt.Sprintf("bot_%d", m.nextID),
		Name:     fmt.Sprintf("%s (bot)", name),
		Strategy: RuleStrategy{},
		// Simulated thinking time with jitter so AI turns don't fire
		// in lockstep.
		ThinkDelay: time.Duration(600+m.rng.Intn(700)) * time.Millisecond,
	}
	if m.hasFixedDelay {
		inst.ThinkDelay = m.fixedDelay
	}
	m.instances[inst.PlayerID] = inst

	log.Printf("[AI] Spawned %s (%s)", inst.Name, inst.PlayerID)
	return inst
}

// SetThinkDelay pins the think delay for instances spawned after the
// call. Tests use it to run whole games quickly.
func (m *Manager) SetThinkDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixedDelay = d
	m.hasFixedDelay = true
}

// IsAI reports whether a player id belongs to a managed AI.
func (m *Manager) IsAI(playerID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[playerID] != nil
}

// Get returns the instance for a player id, or nil.
func (m *Manager) Get(playerID string) *Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[playerID]
}

// Despawn removes an AI from tracking.
func (m *Manager) Despawn(playerID string) {
	m.mu.Lock()
	inst := m.instances[playerID]
	delete(m.instances, playerID)
	m.mu.Unlock()

	if inst != nil {
		log.Printf("[AI] Despawned %s (%s)", inst.Name, inst.PlayerID)
	}
}

// DecideBid asks the player's strategy for a round bid.
func (m *Manager) DecideBid(playerID string, view GameView) int {
	inst := m.Get(playerID)
	if inst == nil {
		log.Printf("[AI] DecideBid called for unknown player %s", playerID)
		return 0
	}
	bid := inst.Strategy.BidFor(view)
	log.Printf("[AI] %s bids %d", inst.Name, bid)
	return bid
}

// DecideCard asks the player's strategy which hand index to play.
func (m *Manager) DecideCard(playerID string, view GameView) int {
	inst := m.Get(playerID)
	if inst == nil {
		log.Printf("[AI] DecideCard called for unknown player %s", playerID)
		return 0
	}
	idx := inst.Strategy.ChooseCard(view)
	log.Printf("[AI] %s plays hand index %d", inst.Name, idx)
	return idx
}
