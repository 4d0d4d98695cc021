package http

import (
	"errors"
	"net/http"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/bot"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/game"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGameOver), errors.Is(err, domain.ErrNotYourTurn), errors.Is(err, domain.ErrColumnFull):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidColumn), errors.Is(err, domain.ErrInvalidPlayer),
		errors.Is(err, domain.ErrInvalidBoard), errors.Is(err, game.ErrInvalidDifficulty),
		errors.Is(err, bot.ErrInvalidDepth):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
