package http

import (
	"net/http"
	"strconv"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/game"
	"github.com/JKelly423/connect-4-reinforced-learning/pkg/uid"
	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	GameService *game.Service
}

func NewHistoryHandler(gs *game.Service) *HistoryHandler {
	return &HistoryHandler{GameService: gs}
}

// GetHistory lists the most recently finished games.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
		return
	}

	games, err := h.GameService.RecentGames(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

type gameDetailsResponse struct {
	domain.GameRecord
	Positions []string `json:"positions"`
}

// GetGameDetails returns a stored game and every position it went through.
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	gameID := c.Param("id")
	if !uid.IsGameID(gameID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game ID"})
		return
	}

	rec, err := h.GameService.GetGame(c.Request.Context(), gameID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := gameDetailsResponse{GameRecord: *rec}
	// abandoned games may have been cut short, but the moves still replay
	if g, err := rec.Replay(); err == nil {
		for _, b := range g.Positions() {
			resp.Positions = append(resp.Positions, b.String())
		}
	}
	c.JSON(http.StatusOK, resp)
}
