package cleanup

import (
	"context"
	"log"
	"time"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/game"
)

type Worker struct {
	SessionManager *game.SessionManager
	IdleTimeout    time.Duration
	Interval       time.Duration
}

func NewWorker(sm *game.SessionManager, idleTimeout, interval time.Duration) *Worker {
	return &Worker{SessionManager: sm, IdleTimeout: idleTimeout, Interval: interval}
}

// Start runs a cleanup pass every Interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	log.Println("[CLEANUP] Background worker started")

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] Background worker stopped")
				return
			case <-ticker.C:
				w.RunOnce()
			}
		}
	}()
}

// RunOnce removes idle sessions and reports how many went.
func (w *Worker) RunOnce() int {
	removed := w.SessionManager.CleanupIdleSessions(w.IdleTimeout)
	if removed > 0 {
		log.Printf("[CLEANUP] Removed %d idle sessions", removed)
	}
	return removed
}
