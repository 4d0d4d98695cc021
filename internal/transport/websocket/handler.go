package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/game"
	"github.com/JKelly423/connect-4-reinforced-learning/pkg/auth"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type TokenValidator interface {
	ValidateGameToken(token string) (*auth.GameClaims, error)
}

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Tokens         TokenValidator
	Upgrader       websocket.Upgrader
}

// NewHandler creates a new WebSocket handler. Origins are checked by the
// CORS middleware in front of it.
func NewHandler(cm *ConnectionManager, sm *game.SessionManager, tokens TokenValidator) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Tokens:         tokens,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(r.Context(), conn)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// 1. Wait for Initialization (Auth)
	claims, err := h.readInit(conn)
	if err != nil {
		log.Printf("[WS] Rejected connection: %v", err)
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteJSON(domain.ServerMessage{Type: domain.MsgError, Message: err.Error()})
		conn.Close()
		return
	}

	gameSession, exists := h.SessionManager.GetSession(claims.GameID)
	if !exists {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteJSON(domain.ServerMessage{Type: domain.MsgError, Message: game.ErrGameNotFound.Error()})
		conn.Close()
		return
	}

	gameID := gameSession.GameID
	h.ConnManager.AddConnection(gameID, conn)
	log.Printf("[WS] Connection initialized for game %s", gameID)

	// Keep-alive pinger
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := h.ConnManager.ping(gameID, conn); err != nil {
					return
				}
			}
		}
	}()

	// 2. Cleanup on exit
	defer func() {
		close(done)
		// a newer socket for the same game keeps it alive
		if h.ConnManager.RemoveConnectionIfMatching(gameID, conn) {
			log.Printf("[WS] Connection closed for game %s", gameID)
			gameSession.HandleDisconnect(h.ConnManager)
		}
	}()

	h.sendSnapshot(gameSession)

	// 3. Main Message Loop
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Game %s disconnected unexpectedly: %v", gameID, err)
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			h.ConnManager.SendMessage(gameID, domain.ServerMessage{Type: domain.MsgError, Message: "Invalid message format"})
			continue
		}

		h.processMessage(ctx, gameSession, claims.Seat(), msg)
	}
}

func (h *Handler) readInit(conn *websocket.Conn) (*auth.GameClaims, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var message domain.ClientMessage
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, err
	}
	if message.Type != domain.MsgInit || message.Token == "" {
		return nil, auth.ErrInvalidToken
	}
	return h.Tokens.ValidateGameToken(message.Token)
}

// sendSnapshot tells a (re)connecting client where the game stands.
func (h *Handler) sendSnapshot(gs *game.GameSession) {
	snap := gs.Snapshot()
	msg := domain.ServerMessage{
		Type:       domain.MsgGameStart,
		GameID:     gs.GameID,
		Opponent:   gs.BotName,
		YourPlayer: gs.HumanPlayer,
		NextTurn:   snap.CurrentPlayer,
		Board:      snap.Board.Cells(),
	}
	if snap.IsFinished() {
		msg.Winner = snap.Winner
	}
	h.ConnManager.SendMessage(gs.GameID, msg)
}

// processMessage routes specific actions
func (h *Handler) processMessage(ctx context.Context, gs *game.GameSession, seat domain.Cell, msg domain.ClientMessage) {
	switch msg.Type {
	case domain.MsgMakeMove:
		if err := gs.HandleMove(ctx, seat, msg.Column, h.ConnManager); err != nil {
			h.ConnManager.SendMessage(gs.GameID, domain.ServerMessage{Type: domain.MsgError, Message: err.Error()})
		}
	default:
		h.ConnManager.SendMessage(gs.GameID, domain.ServerMessage{Type: domain.MsgError, Message: "Unknown message type"})
	}
}
