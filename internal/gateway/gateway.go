// Package gateway terminates WebSocket connections and dispatches the
// JSON action protocol into the lobby and sessions.
package gateway

import (
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/OColmignoli/colmignoli-whist/internal/auth"
	"github.com/OColmignoli/colmignoli-whist/internal/codec"
	"github.com/OColmignoli/colmignoli-whist/internal/lobby"
	"github.com/OColmignoli/colmignoli-whist/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 65536
)

// Connection is one WebSocket client.
type Connection struct {
	PlayerID    string
	DisplayName string
	Conn        *websocket.Conn
	Send        chan []byte
	Gateway     *Gateway

	mu      sync.Mutex
	session *session.Session
}

// Gateway manages WebSocket connections and routes client actions.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection // playerID -> connection

	lobby    *lobby.Lobby
	auth     auth.Service
	upgrader websocket.Upgrader
}

// New creates a gateway. The websocket origin check honors
// FRONTEND_URL; with it unset any origin is accepted (dev mode).
func New(lby *lobby.Lobby, authService auth.Service) *Gateway {
	g := &Gateway{
		connections: make(map[string]*Connection),
		lobby:       lby,
		auth:        authService,
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(os.Getenv("FRONTEND_URL")),
	}
	return g
}

func originChecker(frontendURL string) func(r *http.Request) bool {
	frontendURL = strings.TrimSpace(frontendURL)
	return func(r *http.Request) bool {
		if frontendURL == "" {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients send no origin.
			return true
		}
		allowed, err := url.Parse(frontendURL)
		if err != nil {
			return false
		}
		got, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(got.Scheme, allowed.Scheme) &&
			strings.EqualFold(got.Host, allowed.Host)
	}
}

// HandleWebSocket upgrades /ws/{playerID}. A valid session token in
// the "token" query parameter replaces the display name with the
// account's username.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	playerID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/ws/"), "/")
	if playerID == "" || strings.Contains(playerID, "/") {
		http.Error(w, "missing player id", http.StatusBadRequest)
		return
	}

	displayName := playerID
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		if _, username, ok := g.auth.ResolveSession(token); ok {
			displayName = username
		}
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	c := &Connection{
		PlayerID:    playerID,
		DisplayName: displayName,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Gateway:     g,
	}

	g.mu.Lock()
	if old := g.connections[playerID]; old != nil {
		// One live connection per player id.
		old.Conn.Close()
	}
	g.connections[playerID] = c
	total := len(g.connections)
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s (%s), total: %d", playerID, displayName, total)

	// A reconnecting player lands back in their running game.
	if s := g.lobby.FindByPlayer(playerID); s != nil {
		c.setSession(s)
		c.send(codec.GameStateMessage(s.ID, s.Snapshot(playerID)))
	}

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMsgSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}
		if messageType == websocket.TextMessage {
			c.handleMessage(message)
		}
	}
}

func (c *Connection) handleMessage(data []byte) {
	msg, err := codec.DecodeClientMessage(data)
	if err != nil {
		c.send(codec.Error(err.Error()))
		return
	}

	log.Printf("[Gateway] %s -> %s", c.PlayerID, msg.Action)

	switch msg.Action {
	case codec.ActionCreateGame:
		c.handleCreateGame()
	case codec.ActionJoinGame:
		c.handleJoinGame(msg.GameID)
	case codec.ActionAddAI:
		c.withSession(func(s *session.Session) error { return s.AddAI() })
	case codec.ActionStartGame:
		c.withSession(func(s *session.Session) error { return s.Start() })
	case codec.ActionMakeBid:
		c.withSession(func(s *session.Session) error { return s.MakeBid(c.PlayerID, *msg.Bid) })
	case codec.ActionPlayCard:
		c.withSession(func(s *session.Session) error { return s.PlayCard(c.PlayerID, *msg.CardIndex) })
	case codec.ActionListGames:
		c.send(codec.GameList(c.Gateway.lobby.List()))
	}
}

func (c *Connection) handleCreateGame() {
	if c.getSession() != nil {
		c.send(codec.Error("already in a game"))
		return
	}
	s, err := c.Gateway.lobby.CreateSession(c.Gateway.deliver)
	if err != nil {
		c.send(codec.Error(err.Error()))
		return
	}
	if err := s.Join(c.PlayerID, c.DisplayName); err != nil {
		c.send(codec.Error(err.Error()))
		return
	}
	c.Gateway.lobby.Bind(c.PlayerID, s.ID)
	c.setSession(s)
	c.send(codec.GameCreated(s.ID))
}

func (c *Connection) handleJoinGame(gameID string) {
	if c.getSession() != nil {
		c.send(codec.Error("already in a game"))
		return
	}
	s := c.Gateway.lobby.Get(gameID)
	if s == nil {
		c.send(codec.Error("game not found"))
		return
	}
	if err := s.Join(c.PlayerID, c.DisplayName); err != nil {
		c.send(codec.Error(err.Error()))
		return
	}
	c.Gateway.lobby.Bind(c.PlayerID, s.ID)
	c.setSession(s)
}

// withSession runs an action against the player's current session and
// reports rejections back on this connection only.
func (c *Connection) withSession(fn func(*session.Session) error) {
	s := c.getSession()
	if s == nil {
		c.send(codec.Error("not in a game"))
		return
	}
	if err := fn(s); err != nil {
		c.send(codec.Error(err.Error()))
	}
}

func (c *Connection) getSession() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Connection) setSession(s *session.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Connection) send(msg codec.ServerMessage) {
	select {
	case c.Send <- msg.Encode():
	default:
		// Drop if buffer full.
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	current := g.connections[c.PlayerID]
	if current == c {
		delete(g.connections, c.PlayerID)
	}
	total := len(g.connections)
	g.mu.Unlock()

	// A replaced connection must not evict the player from their game.
	if current == c {
		g.lobby.Disconnect(c.PlayerID)
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.PlayerID, total)
}

// deliver sends a frame to one player's live connection; frames for
// offline players are dropped.
func (g *Gateway) deliver(playerID string, data []byte) {
	g.mu.RLock()
	c := g.connections[playerID]
	g.mu.RUnlock()

	if c != nil {
		select {
		case c.Send <- data:
		default:
			// Drop if buffer full.
		}
	}
}
