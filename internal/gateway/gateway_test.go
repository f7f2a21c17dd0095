package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/OColmignoli/colmignoli-whist/internal/auth"
	"github.com/OColmignoli/colmignoli-whist/internal/codec"
	"github.com/OColmignoli/colmignoli-whist/internal/ledger"
	"github.com/OColmignoli/colmignoli-whist/internal/lobby"
	"github.com/OColmignoli/colmignoli-whist/internal/session"
)

func TestOriginChecker(t *testing.T) {
	check := originChecker("https://play.example.com")

	req := httptest.NewRequest("GET", "/ws/p1", nil)
	if !check(req) {
		t.Fatal("request without an origin must pass")
	}

	req.Header.Set("Origin", "https://play.example.com")
	if !check(req) {
		t.Fatal("matching origin rejected")
	}

	req.Header.Set("Origin", "https://evil.example.com")
	if check(req) {
		t.Fatal("foreign origin accepted")
	}

	req.Header.Set("Origin", "http://play.example.com")
	if check(req) {
		t.Fatal("scheme downgrade accepted")
	}

	open := originChecker("")
	req.Header.Set("Origin", "https://anywhere.example.com")
	if !open(req) {
		t.Fatal("unset FRONTEND_URL must accept any origin")
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *lobby.Lobby) {
	t.Helper()
	lby := lobby.New(lobby.Config{
		Session: session.Config{TickInterval: 5 * time.Millisecond},
	}, ledger.NewMemoryService(0))
	t.Cleanup(lby.Shutdown)

	gw := New(lby, auth.NewManager())
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/", gw.HandleWebSocket)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, lby
}

func dial(t *testing.T, srv *httptest.Server, playerID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + playerID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendAction(t *testing.T, conn *websocket.Conn, msg codec.ClientMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads frames until one matches the wanted action.
func readUntil(t *testing.T, conn *websocket.Conn, action string) codec.ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q frame: %v", action, err)
		}
		var msg codec.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad frame %s: %v", data, err)
		}
		if msg.Action == action {
			return msg
		}
	}
}

func TestCreateJoinAndStartOverWebSocket(t *testing.T) {
	srv, _ := newTestServer(t)

	alice := dial(t, srv, "alice")
	sendAction(t, alice, codec.ClientMessage{Action: codec.ActionCreateGame})
	created := readUntil(t, alice, codec.ActionGameCreated)
	if created.GameID == "" {
		t.Fatal("game_created without game_id")
	}

	bob := dial(t, srv, "bob")
	sendAction(t, bob, codec.ClientMessage{Action: codec.ActionJoinGame, GameID: created.GameID})
	joined := readUntil(t, bob, codec.ActionPlayerJoined)
	if joined.PlayerID != "bob" {
		t.Fatalf("player_joined for %q, want bob", joined.PlayerID)
	}

	sendAction(t, alice, codec.ClientMessage{Action: codec.ActionAddAI})
	state := readUntil(t, alice, codec.ActionGameState)
	if state.State == nil {
		t.Fatal("game_state without state")
	}

	// Wait for the roster to reach three before starting.
	deadline := time.Now().Add(5 * time.Second)
	for len(state.State.Players) < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("roster never reached 3, state: %+v", state.State)
		}
		state = readUntil(t, alice, codec.ActionGameState)
	}

	sendAction(t, alice, codec.ClientMessage{Action: codec.ActionStartGame})
	for state.State.Phase != "bidding" {
		state = readUntil(t, alice, codec.ActionGameState)
	}
	if state.State.CardsPerRound != 1 {
		t.Fatalf("round 1 deals %d cards", state.State.CardsPerRound)
	}

	// Alice sees her own single card, and only a count for bob.
	for _, ps := range state.State.Players {
		if ps.ID == "alice" && len(ps.Hand) != 1 {
			t.Fatalf("alice hand on the wire = %v", ps.Hand)
		}
		if ps.ID == "bob" && len(ps.Hand) != 0 {
			t.Fatal("bob's hand leaked to alice")
		}
	}
}

func TestActionsOutsideGameAreRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	conn := dial(t, srv, "loner")
	sendAction(t, conn, codec.ClientMessage{Action: codec.ActionStartGame})
	msg := readUntil(t, conn, codec.ActionError)
	if msg.Message != "not in a game" {
		t.Fatalf("error = %q", msg.Message)
	}

	sendAction(t, conn, codec.ClientMessage{Action: codec.ActionJoinGame, GameID: "missing"})
	msg = readUntil(t, conn, codec.ActionError)
	if msg.Message != "game not found" {
		t.Fatalf("error = %q", msg.Message)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"warp"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg = readUntil(t, conn, codec.ActionError)
	if !strings.Contains(msg.Message, "unknown action") {
		t.Fatalf("error = %q", msg.Message)
	}
}

func TestListGames(t *testing.T) {
	srv, _ := newTestServer(t)

	alice := dial(t, srv, "alice")
	sendAction(t, alice, codec.ClientMessage{Action: codec.ActionCreateGame})
	created := readUntil(t, alice, codec.ActionGameCreated)

	bob := dial(t, srv, "bob")
	sendAction(t, bob, codec.ClientMessage{Action: codec.ActionListGames})
	list := readUntil(t, bob, codec.ActionGameList)
	if len(list.Games) != 1 || list.Games[0].GameID != created.GameID {
		t.Fatalf("game list = %+v", list.Games)
	}
	if list.Games[0].Humans != 1 || list.Games[0].Phase != "waiting" {
		t.Fatalf("summary = %+v", list.Games[0])
	}
}
