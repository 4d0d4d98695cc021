package http

import (
	"net/http"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups what NewRouter mounts.
type Handlers struct {
	Games     *GamesHandler
	History   *HistoryHandler
	Watch     *WatchHandler
	Engine    *EngineHandler
	WebSocket http.HandlerFunc

	Tokens         middleware.TokenValidator
	AllowedOrigins []string
}

func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(h.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	router.POST("/api/games", h.Games.StartGame)
	router.GET("/api/games", h.History.GetHistory)
	router.GET("/api/games/:id", h.History.GetGameDetails)
	router.GET("/api/live", h.Watch.GetLiveGames)
	router.POST("/api/engine/best-move", h.Engine.BestMove)

	// Routes bound to one seat of a live game
	seated := router.Group("/api/session")
	seated.Use(middleware.GameAuthMiddleware(h.Tokens))
	{
		seated.GET("", h.Games.GetState)
		seated.POST("/move", h.Games.MakeMove)
	}

	// WebSocket Route (auth handled inside the WS handler itself)
	if h.WebSocket != nil {
		router.GET("/ws", gin.WrapF(h.WebSocket))
	}
	return router
}
