// Package codec defines the JSON wire protocol between clients and
// the server, and the conversions from engine snapshots to wire
// shapes.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/OColmignoli/colmignoli-whist/card"
	"github.com/OColmignoli/colmignoli-whist/whist"
)

// Client action names.
const (
	ActionCreateGame = "create_game"
	ActionJoinGame   = "join_game"
	ActionAddAI      = "add_ai"
	ActionStartGame  = "start_game"
	ActionMakeBid    = "make_bid"
	ActionPlayCard   = "play_card"
	ActionListGames  = "list_games"
)

// Server action names.
const (
	ActionGameCreated  = "game_created"
	ActionGameState    = "game_state"
	ActionPlayerJoined = "player_joined"
	ActionPlayerLeft   = "player_left"
	ActionGameList     = "game_list"
	ActionError        = "error"
)

// ClientMessage is one decoded client frame. Optional fields are only
// meaningful for the actions that carry them.
type ClientMessage struct {
	Action    string `json:"action"`
	GameID    string `json:"game_id,omitempty"`
	Bid       *int   `json:"bid,omitempty"`
	CardIndex *int   `json:"card_index,omitempty"`
}

// DecodeClientMessage parses a client frame and checks that the
// fields its action requires are present.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("invalid message: %w", err)
	}
	switch msg.Action {
	case ActionCreateGame, ActionAddAI, ActionStartGame, ActionListGames:
	case ActionJoinGame:
		if msg.GameID == "" {
			return ClientMessage{}, fmt.Errorf("join_game requires game_id")
		}
	case ActionMakeBid:
		if msg.Bid == nil {
			return ClientMessage{}, fmt.Errorf("make_bid requires bid")
		}
	case ActionPlayCard:
		if msg.CardIndex == nil {
			return ClientMessage{}, fmt.Errorf("play_card requires card_index")
		}
	case "":
		return ClientMessage{}, fmt.Errorf("missing action")
	default:
		return ClientMessage{}, fmt.Errorf("unknown action %q", msg.Action)
	}
	return msg, nil
}

// ServerMessage is one outgoing frame. Exactly the fields relevant to
// Action are populated; the rest are omitted.
type ServerMessage struct {
	Action   string        `json:"action"`
	GameID   string        `json:"game_id,omitempty"`
	PlayerID string        `json:"player_id,omitempty"`
	Message  string        `json:"message,omitempty"`
	State    *GameState    `json:"state,omitempty"`
	Games    []GameSummary `json:"games,omitempty"`
}

func (m ServerMessage) Encode() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		// Wire structs contain nothing unmarshalable.
		panic(err)
	}
	return data
}

func GameCreated(gameID string) ServerMessage {
	return ServerMessage{Action: ActionGameCreated, GameID: gameID}
}

func PlayerJoined(gameID, playerID string) ServerMessage {
	return ServerMessage{Action: ActionPlayerJoined, GameID: gameID, PlayerID: playerID}
}

func PlayerLeft(gameID, playerID string) ServerMessage {
	return ServerMessage{Action: ActionPlayerLeft, GameID: gameID, PlayerID: playerID}
}

func GameList(games []GameSummary) ServerMessage {
	if games == nil {
		games = []GameSummary{}
	}
	return ServerMessage{Action: ActionGameList, Games: games}
}

func Error(msg string) ServerMessage {
	return ServerMessage{Action: ActionError, Message: msg}
}

func GameStateMessage(gameID string, snap whist.Snapshot) ServerMessage {
	state := GameStateFromSnapshot(snap)
	return ServerMessage{Action: ActionGameState, GameID: gameID, State: &state}
}

// GameSummary is one lobby listing entry.
type GameSummary struct {
	GameID  string `json:"game_id"`
	Phase   string `json:"phase"`
	Players int    `json:"players"`
	Humans  int    `json:"humans"`
}

// Card travels as {"suit":"hearts","value":"A"}.
type Card struct {
	Suit  string `json:"suit"`
	Value string `json:"value"`
}

func CardToWire(c card.Card) Card {
	return Card{Suit: c.Suit().String(), Value: c.RankName()}
}

func CardsToWire(cards []card.Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = CardToWire(c)
	}
	return out
}

// TrickPlay is one card on the table with the id of who played it.
type TrickPlay struct {
	PlayerID string `json:"player_id"`
	Card     Card   `json:"card"`
}

// PlayerState is one roster member as the recipient is allowed to see
// them: Hand is present only in the recipient's own entry.
type PlayerState struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsAI      bool   `json:"is_ai"`
	CardCount int    `json:"card_count"`
	Hand      []Card `json:"hand,omitempty"`
	Score     int    `json:"score"`
	TricksWon int    `json:"tricks_won"`
	Bid       *int   `json:"bid"`
}

// GameState is the full per-viewer projection sent after every
// accepted mutation.
type GameState struct {
	Phase         string        `json:"phase"`
	Stage         string        `json:"stage"`
	RoundNumber   int           `json:"round_number"`
	CardsPerRound int           `json:"cards_per_round"`
	TrumpCard     *Card         `json:"trump_card"`
	LedSuit       string        `json:"led_suit,omitempty"`
	CurrentPlayer string        `json:"current_player,omitempty"`
	Dealer        string        `json:"dealer,omitempty"`
	Trick         []TrickPlay   `json:"trick"`
	Players       []PlayerState `json:"players"`
}

// GameStateFromSnapshot converts an engine snapshot to its wire form.
// Per-viewer filtering already happened when the snapshot was taken.
func GameStateFromSnapshot(snap whist.Snapshot) GameState {
	state := GameState{
		Phase:         snap.Phase.String(),
		Stage:         snap.Stage.String(),
		RoundNumber:   snap.RoundNumber,
		CardsPerRound: snap.CardsPerRound,
		CurrentPlayer: snap.CurrentPlayer,
		Dealer:        snap.Dealer,
		Trick:         make([]TrickPlay, 0, len(snap.Trick)),
		Players:       make([]PlayerState, 0, len(snap.Players)),
	}
	if snap.TrumpCard != card.CardInvalid {
		wc := CardToWire(snap.TrumpCard)
		state.TrumpCard = &wc
	}
	if snap.HasLedSuit {
		state.LedSuit = snap.LedSuit.String()
	}
	for _, play := range snap.Trick {
		state.Trick = append(state.Trick, TrickPlay{
			PlayerID: play.PlayerID,
			Card:     CardToWire(play.Card),
		})
	}
	for _, ps := range snap.Players {
		ws := PlayerState{
			ID:        ps.ID,
			Name:      ps.Name,
			IsAI:      ps.Robot,
			CardCount: ps.CardCount,
			Score:     ps.Score,
			TricksWon: ps.TricksWon,
			Bid:       ps.Bid,
		}
		if ps.Hand != nil {
			ws.Hand = CardsToWire(ps.Hand)
		}
		state.Players = append(state.Players, ws)
	}
	return state
}
