// Package ledger records completed-game results and serves a player's
// recent history. It is written from the session's game-over hook and
// never read by the engine.
package ledger

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

const defaultRecentLimit = 20

// Standing is one player's final placement in a finished game.
type Standing struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Place    int    `json:"place"`
}

// Result is the record of one finished game.
type Result struct {
	GameID     string     `json:"game_id"`
	FinishedAt time.Time  `json:"finished_at"`
	Rounds     int        `json:"rounds"`
	Standings  []Standing `json:"standings"`
}

type Service interface {
	Close() error
	RecordResult(ctx context.Context, res Result) error
	// ListRecent returns the newest results the player appears in,
	// newest first.
	ListRecent(ctx context.Context, playerID string, limit int) ([]Result, error)
}

// NewServiceFromEnv selects the backend from LEDGER_MODE:
// "off" (default), "memory", or "postgres".
func NewServiceFromEnv() (Service, string, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("LEDGER_MODE")))
	switch mode {
	case "", "off":
		return &noopService{}, "off", nil
	case "memory":
		return NewMemoryService(0), "memory", nil
	case "postgres":
		service, err := NewPostgresServiceFromEnv()
		if err != nil {
			return nil, "", err
		}
		return service, "postgres", nil
	}
	return nil, "", errors.New("unknown LEDGER_MODE: " + mode)
}

type noopService struct{}

func (n *noopService) Close() error { return nil }

func (n *noopService) RecordResult(_ context.Context, _ Result) error { return nil }

func (n *noopService) ListRecent(_ context.Context, _ string, _ int) ([]Result, error) {
	return []Result{}, nil
}

// MemoryService keeps results in process memory. Used for tests and
// single-node dev runs.
type MemoryService struct {
	mu      sync.RWMutex
	results []Result
	cap     int
}

func NewMemoryService(capacity int) *MemoryService {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryService{cap: capacity}
}

func (m *MemoryService) Close() error { return nil }

func (m *MemoryService) RecordResult(_ context.Context, res Result) error {
	if res.GameID == "" {
		return errors.New("result without game id")
	}
	if res.FinishedAt.IsZero() {
		res.FinishedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
	if len(m.results) > m.cap {
		m.results = m.results[len(m.results)-m.cap:]
	}
	return nil
}

func (m *MemoryService) ListRecent(_ context.Context, playerID string, limit int) ([]Result, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultRecentLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Result, 0, limit)
	for _, res := range m.results {
		for _, st := range res.Standings {
			if st.PlayerID == playerID {
				out = append(out, res)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
