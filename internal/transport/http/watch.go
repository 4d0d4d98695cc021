package http

import (
	"net/http"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/game"
	"github.com/gin-gonic/gin"
)

type WatchHandler struct {
	SessionManager *game.SessionManager
}

func NewWatchHandler(sm *game.SessionManager) *WatchHandler {
	return &WatchHandler{SessionManager: sm}
}

// GetLiveGames returns the games still in progress.
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	games := h.SessionManager.GetActiveGames()
	c.JSON(http.StatusOK, gin.H{"games": games, "count": len(games)})
}
