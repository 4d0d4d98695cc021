package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/config"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/repository/postgres"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/repository/redis"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/bot"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/cleanup"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/game"
	transportHttp "github.com/JKelly423/connect-4-reinforced-learning/internal/transport/http"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/transport/websocket"
	"github.com/JKelly423/connect-4-reinforced-learning/pkg/auth"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database (optional: without it finished games are not kept)
	var gameRepo *postgres.GameRepo
	if cfg.DatabaseURL != "" {
		db := openDatabase(cfg)
		defer db.Close()
		gameRepo = postgres.NewGameRepo(db)
	} else {
		log.Println("DATABASE_URL not set, game history is disabled")
	}

	// 2. Redis move cache
	opts := bot.Options{MediumDepth: cfg.BotDepthMedium, HardDepth: cfg.BotDepthHard, CacheTTL: cfg.MoveCacheTTL}
	if client := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword); client != nil {
		cache := redis.NewRedisCache(client)
		defer cache.Close()
		opts.Cache = cache
	}

	// 3. Services
	strategies := func(difficulty string) bot.Strategy {
		return bot.NewStrategy(difficulty, opts)
	}
	var sessionManager *game.SessionManager
	var history game.HistoryRepository
	if gameRepo != nil {
		sessionManager = game.NewSessionManager(gameRepo, strategies)
		history = gameRepo
	} else {
		sessionManager = game.NewSessionManager(nil, strategies)
		history = emptyHistory{}
	}
	gameService := game.NewService(history)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.GameTokenTTL)
	connManager := websocket.NewConnectionManager()

	// 4. Background workers
	cleanup.NewWorker(sessionManager, cfg.SessionIdleTimeout, cfg.CleanupInterval).Start(ctx)

	// 5. HTTP
	wsHandler := websocket.NewHandler(connManager, sessionManager, tokens)
	router := transportHttp.NewRouter(transportHttp.Handlers{
		Games:          transportHttp.NewGamesHandler(sessionManager, tokens, connManager),
		History:        transportHttp.NewHistoryHandler(gameService),
		Watch:          transportHttp.NewWatchHandler(sessionManager),
		Engine:         transportHttp.NewEngineHandler(cfg.BotDepthHard+2, 0),
		WebSocket:      wsHandler.HandleWebSocket,
		Tokens:         tokens,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	sessionManager.Wait()

	log.Println("Server exited gracefully")
}

func openDatabase(cfg *config.Config) *sql.DB {
	db, err := postgres.Open(cfg.DBDriver, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Running database migrations...")
	if err := postgres.RunMigrations(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database migration completed successfully")
	return db
}

// emptyHistory serves the history routes when no database is configured.
type emptyHistory struct{}

func (emptyHistory) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	return nil, nil
}

func (emptyHistory) ListRecent(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	return []domain.GameRecord{}, nil
}
