package http

import (
	"log"
	"net/http"
	"sync"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/bot"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/game"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/transport/http/middleware"
	"github.com/JKelly423/connect-4-reinforced-learning/pkg/auth"
	"github.com/gin-gonic/gin"
)

type GamesHandler struct {
	SessionManager *game.SessionManager
	Tokens         *auth.TokenIssuer
	Live           game.Notifier // Optional, also receives the messages
}

func NewGamesHandler(sm *game.SessionManager, tokens *auth.TokenIssuer, live game.Notifier) *GamesHandler {
	return &GamesHandler{SessionManager: sm, Tokens: tokens, Live: live}
}

type startGameRequest struct {
	Difficulty string `json:"difficulty"`
	Player     int    `json:"player"`
}

type gameStateResponse struct {
	GameID     string                 `json:"gameId"`
	Token      string                 `json:"token,omitempty"`
	Difficulty string                 `json:"difficulty"`
	BotName    string                 `json:"botName"`
	YourPlayer domain.Cell            `json:"yourPlayer"`
	Status     domain.GameStatus      `json:"status"`
	Winner     domain.Cell            `json:"winner"`
	NextTurn   domain.Cell            `json:"nextTurn"`
	Board      [][]int                `json:"board"`
	Moves      []domain.Move          `json:"moves"`
	Events     []domain.ServerMessage `json:"events,omitempty"`
	Rendered   string                 `json:"rendered"`
}

// collector keeps the messages of one request and forwards them to the
// live connection, if any.
type collector struct {
	mu       sync.Mutex
	next     game.Notifier
	messages []domain.ServerMessage
}

func (c *collector) SendMessage(gameID string, msg domain.ServerMessage) error {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	if c.next != nil {
		return c.next.SendMessage(gameID, msg)
	}
	return nil
}

// StartGame creates a session against the bot and returns its game token.
func (h *GamesHandler) StartGame(c *gin.Context) {
	req := startGameRequest{Difficulty: bot.DifficultyMedium, Player: int(domain.PlayerOne)}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session, err := h.SessionManager.CreateSession(req.Difficulty, domain.Cell(req.Player))
	if err != nil {
		abortWithError(c, err)
		return
	}

	token, err := h.Tokens.GenerateGameToken(session.GameID, session.HumanPlayer)
	if err != nil {
		log.Printf("[SESSION] Failed to sign token for %s: %v", session.GameID, err)
		abortWithError(c, err)
		return
	}

	events := &collector{next: h.Live}
	if err := session.Start(c.Request.Context(), events); err != nil {
		abortWithError(c, err)
		return
	}

	resp := stateOf(session)
	resp.Token = token
	resp.Events = events.messages
	c.JSON(http.StatusCreated, resp)
}

// GetState returns the caller's live game.
func (h *GamesHandler) GetState(c *gin.Context) {
	session, ok := h.sessionFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateOf(session))
}

type moveRequest struct {
	Column *int `json:"column"`
}

// MakeMove plays the caller's column and the bot's reply.
func (h *GamesHandler) MakeMove(c *gin.Context) {
	session, ok := h.sessionFor(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Column == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	claims, _ := middleware.Claims(c)
	events := &collector{next: h.Live}
	if err := session.HandleMove(c.Request.Context(), claims.Seat(), *req.Column, events); err != nil {
		abortWithError(c, err)
		return
	}

	resp := stateOf(session)
	resp.Events = events.messages
	c.JSON(http.StatusOK, resp)
}

func (h *GamesHandler) sessionFor(c *gin.Context) (*game.GameSession, bool) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	session, exists := h.SessionManager.GetSession(claims.GameID)
	if !exists {
		abortWithError(c, game.ErrGameNotFound)
		return nil, false
	}
	return session, true
}

func stateOf(session *game.GameSession) gameStateResponse {
	snap := session.Snapshot()
	moves := snap.Moves
	if moves == nil {
		moves = []domain.Move{}
	}
	return gameStateResponse{
		GameID:     session.GameID,
		Difficulty: session.Difficulty,
		BotName:    session.BotName,
		YourPlayer: session.HumanPlayer,
		Status:     snap.Status,
		Winner:     snap.Winner,
		NextTurn:   snap.CurrentPlayer,
		Board:      snap.Board.Cells(),
		Moves:      moves,
		Rendered:   snap.Board.String(),
	}
}
