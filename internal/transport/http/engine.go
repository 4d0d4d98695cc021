package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/bot"
	"github.com/gin-gonic/gin"
)

const (
	DefaultEngineMaxDepth = 7
	DefaultEngineTimeout  = 10 * time.Second
)

// EngineHandler exposes the search to analysis clients.
type EngineHandler struct {
	MaxDepth int
	Timeout  time.Duration
}

func NewEngineHandler(maxDepth int, timeout time.Duration) *EngineHandler {
	if maxDepth <= 0 {
		maxDepth = DefaultEngineMaxDepth
	}
	if timeout <= 0 {
		timeout = DefaultEngineTimeout
	}
	return &EngineHandler{MaxDepth: maxDepth, Timeout: timeout}
}

type bestMoveRequest struct {
	Board  [][]int `json:"board" binding:"required"`
	Player int     `json:"player" binding:"required"`
	Depth  int     `json:"depth"`
}

type bestMoveResponse struct {
	Column int  `json:"column"`
	Value  int  `json:"value"`
	Depth  int  `json:"depth"`
	Win    bool `json:"win"`
	Loss   bool `json:"loss"`
}

// BestMove searches the posted board for player.
func (h *EngineHandler) BestMove(c *gin.Context) {
	var req bestMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board and player are required"})
		return
	}
	if req.Depth > h.MaxDepth {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth is above the server limit"})
		return
	}

	board, err := domain.BoardFromRows(req.Board)
	if err != nil {
		abortWithError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	res, err := bot.ParallelBestMove(ctx, board, domain.Cell(req.Player), req.Depth)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[ENGINE] Search at depth %d timed out", req.Depth)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search timed out"})
			return
		}
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, bestMoveResponse{
		Column: res.Column,
		Value:  res.Value,
		Depth:  req.Depth,
		Win:    res.IsWin(),
		Loss:   res.IsLoss(),
	})
}
