package whist

// Phase is the session lifecycle phase.
type Phase byte

const (
	PhaseWaiting Phase = iota
	PhaseBidding
	PhasePlaying
	PhaseGameOver
)

var PhaseNames = map[Phase]string{
	PhaseWaiting:  "waiting",
	PhaseBidding:  "bidding",
	PhasePlaying:  "playing",
	PhaseGameOver: "game_over",
}

func (p Phase) String() string { return PhaseNames[p] }

// Stage is the trump regime of the current block of rounds.
type Stage byte

const (
	StageAscending Stage = iota
	StageNoTrump
	StageDescending
)

var StageNames = map[Stage]string{
	StageAscending:  "ascending",
	StageNoTrump:    "no_trump",
	StageDescending: "descending",
}

func (s Stage) String() string { return StageNames[s] }

const (
	MinRosterSize = 3
	MaxRosterSize = 5
	DeckSize      = 52
)
