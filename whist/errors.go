package whist

import "errors"

var (
	ErrGameStarted      = errors.New("game already started")
	ErrGameOver         = errors.New("game is over")
	ErrRosterFull       = errors.New("roster is full")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrDuplicatePlayer  = errors.New("player already in roster")
	ErrUnknownPlayer    = errors.New("player not in roster")
	ErrWrongPhase       = errors.New("action not allowed in current phase")
	ErrOutOfTurn        = errors.New("action out of turn")
	ErrBidOutOfRange    = errors.New("bid out of range")
	ErrInvalidCardIndex = errors.New("invalid card index")
	ErrMustFollowSuit   = errors.New("must follow led suit")
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
