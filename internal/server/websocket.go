package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/santorinifree/santorini-server-go/internal/config"
	"github.com/santorinifree/santorini-server-go/internal/game"
	"github.com/santorinifree/santorini-server-go/internal/game/hint"
	"github.com/santorinifree/santorini-server-go/internal/repository"
	"github.com/santorinifree/santorini-server-go/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one WebSocket connection. sessionID and gameID are written only
// through the hub's setClient helpers so that broadcast reads from other
// goroutines are synchronized under the hub mutex.
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	gameID    string
}

// Hub routes WebSocket messages to the game manager and broadcasts state
// snapshots to every client watching a game.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client

	games    *game.Manager
	sessions *session.Manager
	matches  *repository.MatchRepository // nil when persistence is disabled
	gameCfg  config.GameConfig
	archived map[string]bool
	logger   *zap.Logger
}

// NewHub creates a hub over the game and client session managers. matches
// may be nil; finished games are then simply not archived.
func NewHub(games *game.Manager, sessions *session.Manager, matches *repository.MatchRepository, gameCfg config.GameConfig, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		games:      games,
		sessions:   sessions,
		matches:    matches,
		gameCfg:    gameCfg,
		archived:   make(map[string]bool),
		logger:     logger,
	}
}

// Run processes client registration until the context is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			if c.sessionID != "" {
				h.sessions.Remove(c.sessionID)
			}
		}
	}
}

func (h *Hub) handleMessage(c *Client, msg Message) {
	switch msg.Type {
	case MsgRegister:
		var req RegisterRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			h.sendError(c, "", err)
			return
		}
		s := h.sessions.Register(req.Name)
		h.setClientSession(c, s.ID)
		h.send(c, Message{Type: MsgRegistered}, RegisteredPayload{SessionID: s.ID})

	case MsgCreateGame:
		var req CreateGameRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			h.sendError(c, "", err)
			return
		}
		cfg := game.SessionConfig{
			BoardSize:      h.gameCfg.BoardSize,
			HintsPerPlayer: h.gameCfg.HintsPerPlayer,
			ClockPerPlayer: h.gameCfg.ClockPerPlayer,
		}
		for i, p := range req.Players {
			name := p.Name
			if name == "" {
				name = fmt.Sprintf("Player %d", i+1)
			}
			cfg.Players[i] = game.PlayerSpec{
				ID:    fmt.Sprintf("p%d", i+1),
				Name:  name,
				Power: p.Power,
			}
		}
		if req.Seed != nil {
			cfg.Rand = rand.New(rand.NewSource(*req.Seed))
		}
		sess, err := h.games.Create(cfg)
		if err != nil {
			h.sendError(c, "", err)
			return
		}
		h.setClientGame(c, sess.ID())
		if c.sessionID != "" {
			h.sessions.Bind(c.sessionID, sess.ID())
		}
		h.sendState(c, sess)

	case MsgJoinGame:
		sess, ok := h.games.Get(msg.GameID)
		if !ok {
			h.sendError(c, msg.GameID, errNotFound(msg.GameID))
			return
		}
		h.setClientGame(c, sess.ID())
		if c.sessionID != "" {
			h.sessions.Bind(c.sessionID, sess.ID())
		}
		h.sendState(c, sess)

	case MsgAction:
		sess, ok := h.games.Get(c.gameID)
		if !ok {
			h.sendError(c, c.gameID, errNotFound(c.gameID))
			return
		}
		var req ActionRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			h.sendError(c, c.gameID, err)
			return
		}
		if err := sess.ApplyAction(req.Action); err != nil {
			h.sendError(c, c.gameID, err)
			// The client still gets a fresh snapshot to re-render from.
			h.sendState(c, sess)
			return
		}
		if out := sess.Outcome(); out != nil {
			h.archiveMatch(sess, out)
		}
		h.broadcastState(sess)

	case MsgHint:
		sess, ok := h.games.Get(c.gameID)
		if !ok {
			h.sendError(c, c.gameID, errNotFound(c.gameID))
			return
		}
		// The quota is only charged once a suggestion actually exists.
		snap := sess.Snapshot()
		if snap.Outcome != nil {
			h.sendError(c, c.gameID, game.ErrGameAlreadyOver)
			return
		}
		best, found := hint.Best(sess.BoardClone(), snap)
		if !found {
			h.sendError(c, c.gameID, errNoHint)
			return
		}
		if err := sess.ConsumeHint(); err != nil {
			h.sendError(c, c.gameID, err)
			return
		}
		var left int
		for _, p := range snap.Players {
			if p.ID == snap.ActivePlayerID {
				left = p.HintsLeft - 1
			}
		}
		h.send(c, Message{Type: MsgHintResult, GameID: sess.ID()}, HintPayload{Action: best, HintsLeft: left})

	case MsgLegalActions:
		sess, ok := h.games.Get(c.gameID)
		if !ok {
			h.sendError(c, c.gameID, errNotFound(c.gameID))
			return
		}
		h.sendState(c, sess)

	default:
		h.sendError(c, c.gameID, errUnknownMessage(msg.Type))
	}
}

func (h *Hub) archiveMatch(sess *game.Session, out *game.Outcome) {
	if h.matches == nil {
		return
	}
	h.mu.Lock()
	if h.archived[sess.ID()] {
		h.mu.Unlock()
		return
	}
	h.archived[sess.ID()] = true
	h.mu.Unlock()

	snap := sess.Snapshot()
	rec := repository.MatchRecord{
		ID:         sess.ID(),
		WinnerID:   out.WinnerID,
		Method:     string(out.Method),
		Turns:      sess.TurnCount(),
		StartedAt:  sess.StartedAt(),
		FinishedAt: out.DecidedAt,
	}
	if len(snap.Players) == 2 {
		rec.Player1 = snap.Players[0].Name
		rec.Player2 = snap.Players[1].Name
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.matches.Save(ctx, rec); err != nil {
			h.logger.Error("failed to archive match",
				zap.String("game_id", rec.ID),
				zap.Error(err),
			)
		}
	}()
}

// setClientSession binds a client to its lease token under the hub mutex.
func (h *Hub) setClientSession(c *Client, id string) {
	h.mu.Lock()
	c.sessionID = id
	h.mu.Unlock()
}

// setClientGame binds a client to a game under the hub mutex, so broadcast
// reads of gameID from other clients' goroutines are synchronized.
func (h *Hub) setClientGame(c *Client, id string) {
	h.mu.Lock()
	c.gameID = id
	h.mu.Unlock()
}

func (h *Hub) sendState(c *Client, sess *game.Session) {
	h.send(c, Message{Type: MsgGameState, GameID: sess.ID()}, sess.Snapshot())
}

// broadcastState pushes a fresh snapshot to every client in the game.
func (h *Hub) broadcastState(sess *game.Session) {
	snap := sess.Snapshot()
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.gameID == sess.ID() {
			h.sendLocked(c, Message{Type: MsgGameState, GameID: sess.ID()}, snap)
		}
	}
}

func (h *Hub) sendError(c *Client, gameID string, err error) {
	h.send(c, Message{Type: MsgError, GameID: gameID}, ErrorPayload{
		Code:    errorCode(err),
		Message: err.Error(),
	})
}

func (h *Hub) send(c *Client, msg Message, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.sendLocked(c, msg, payload)
}

func (h *Hub) sendLocked(c *Client, msg Message, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal payload", zap.Error(err))
		return
	}
	msg.Data = data
	raw, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal message", zap.Error(err))
		return
	}
	select {
	case c.send <- raw:
	default:
		// Slow consumer; drop the frame rather than block the hub.
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.sendError(c, c.gameID, err)
			continue
		}
		h.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// ServeWS upgrades an HTTP request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &Client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.register <- c
	go c.writePump()
	go c.readPump(h)
}

// StartWebSocketServer runs the WebSocket listener until the server exits.
func StartWebSocketServer(ctx context.Context, cfg config.WebSocketConfig, h *Hub, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Path, h.ServeWS)

	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("websocket server listening",
		zap.String("address", cfg.Address),
		zap.String("path", cfg.Path),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
