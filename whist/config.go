package whist

import "fmt"

type Config struct {
	// Roster bounds; membership freezes once the game starts.
	MinPlayers int
	MaxPlayers int

	// RNG seed (0 => time-based)
	Seed int64
}

// DefaultConfig returns the standard 3-5 player table.
func DefaultConfig() Config {
	return Config{
		MinPlayers: MinRosterSize,
		MaxPlayers: MaxRosterSize,
	}
}

func (c Config) validate() error {
	if c.MinPlayers < MinRosterSize {
		return fmt.Errorf("MinPlayers must be >= %d", MinRosterSize)
	}
	if c.MaxPlayers > MaxRosterSize {
		return fmt.Errorf("MaxPlayers must be <= %d", MaxRosterSize)
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("MinPlayers must be <= MaxPlayers")
	}
	return nil
}
