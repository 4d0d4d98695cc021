package game

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/bot"
	"github.com/JKelly423/connect-4-reinforced-learning/pkg/uid"
)

const (
	ErrGameNotFound      domain.Error = "game not found"
	ErrInvalidDifficulty domain.Error = "invalid difficulty"
)

// Notifier delivers server messages to the human seated in a game.
type Notifier interface {
	SendMessage(gameID string, message domain.ServerMessage) error
}

type GameRepository interface {
	SaveGame(ctx context.Context, rec *domain.GameRecord) error
}

// BotMoveTimeout bounds a single bot reply.
const BotMoveTimeout = 30 * time.Second

// StrategyFactory builds the bot for a difficulty.
type StrategyFactory func(difficulty string) bot.Strategy

type GameSession struct {
	GameID      string
	Difficulty  string
	BotName     string
	HumanPlayer domain.Cell
	Game        *domain.Game
	Reason      string

	CreatedAt    time.Time
	LastActivity time.Time
	FinishedAt   time.Time

	bot     bot.Strategy
	mu      sync.Mutex
	manager *SessionManager
}

// SessionManager manages active game sessions
type SessionManager struct {
	sessions   map[string]*GameSession // gameID → GameSession
	mu         sync.RWMutex
	repo       GameRepository
	strategies StrategyFactory
	saves      sync.WaitGroup
	now        func() time.Time
}

func NewSessionManager(repo GameRepository, strategies StrategyFactory) *SessionManager {
	return &SessionManager{
		sessions:   make(map[string]*GameSession),
		repo:       repo,
		strategies: strategies,
		now:        time.Now,
	}
}

// CreateSession seats a human as humanPlayer against the bot for difficulty.
func (sm *SessionManager) CreateSession(difficulty string, humanPlayer domain.Cell) (*GameSession, error) {
	if !bot.IsValidDifficulty(difficulty) {
		return nil, ErrInvalidDifficulty
	}
	if err := domain.ValidatePlayer(humanPlayer); err != nil {
		return nil, err
	}

	now := sm.now()
	session := &GameSession{
		GameID:       uid.GenerateGameID(),
		Difficulty:   difficulty,
		BotName:      bot.GetBotName(difficulty),
		HumanPlayer:  humanPlayer,
		Game:         domain.NewGame(),
		CreatedAt:    now,
		LastActivity: now,
		bot:          sm.strategies(difficulty),
		manager:      sm,
	}

	sm.mu.Lock()
	sm.sessions[session.GameID] = session
	sm.mu.Unlock()

	log.Printf("[SESSION] Created session %s: human as %v vs %s (%s)", session.GameID, humanPlayer, session.BotName, difficulty)
	return session, nil
}

func (sm *SessionManager) GetSession(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[gameID]; !exists {
		return ErrGameNotFound
	}
	log.Printf("[SESSION] Removing session %s", gameID)
	delete(sm.sessions, gameID)
	return nil
}

// LiveGame summarises a session for listings.
type LiveGame struct {
	GameID     string            `json:"gameId"`
	Difficulty string            `json:"difficulty"`
	BotName    string            `json:"botName"`
	MoveCount  int               `json:"moveCount"`
	Status     domain.GameStatus `json:"status"`
	StartedAt  time.Time         `json:"startedAt"`
}

func (sm *SessionManager) GetActiveGames() []LiveGame {
	sm.mu.RLock()
	sessions := make([]*GameSession, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	games := make([]LiveGame, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		if !s.Game.IsFinished() {
			games = append(games, LiveGame{
				GameID:     s.GameID,
				Difficulty: s.Difficulty,
				BotName:    s.BotName,
				MoveCount:  s.Game.MoveCount(),
				Status:     s.Game.Status,
				StartedAt:  s.CreatedAt,
			})
		}
		s.mu.Unlock()
	}
	return games
}

// CleanupIdleSessions drops sessions untouched for longer than idle. Games
// still in progress are saved as timed out first. It returns the number of
// sessions removed.
func (sm *SessionManager) CleanupIdleSessions(idle time.Duration) int {
	now := sm.now()

	sm.mu.Lock()
	var stale []*GameSession
	for gameID, session := range sm.sessions {
		session.mu.Lock()
		if now.Sub(session.LastActivity) > idle {
			stale = append(stale, session)
			delete(sm.sessions, gameID)
		}
		session.mu.Unlock()
	}
	sm.mu.Unlock()

	for _, session := range stale {
		session.mu.Lock()
		if !session.Game.IsFinished() {
			session.finishLocked(domain.ReasonTimeout, session.HumanPlayer.Opponent())
		}
		session.mu.Unlock()
	}

	if len(stale) > 0 {
		log.Printf("[SESSION] Memory cleanup: Removed %d stale game sessions", len(stale))
	}
	return len(stale)
}

// Wait blocks until every pending save has finished.
func (sm *SessionManager) Wait() {
	sm.saves.Wait()
}

// Start announces the game and, when the bot opens, plays its first move.
func (gs *GameSession) Start(ctx context.Context, conn Notifier) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	conn.SendMessage(gs.GameID, domain.ServerMessage{
		Type:       domain.MsgGameStart,
		GameID:     gs.GameID,
		Opponent:   gs.BotName,
		YourPlayer: gs.HumanPlayer,
		NextTurn:   gs.Game.CurrentPlayer,
		Board:      gs.Game.Board.Cells(),
	})

	if gs.Game.IsFinished() || gs.Game.CurrentPlayer == gs.HumanPlayer {
		return nil
	}
	return gs.playBotLocked(ctx, conn)
}

// HandleMove plays the human's column and then the bot's reply. A bot turn
// left over from an earlier failed reply is played first.
func (gs *GameSession) HandleMove(ctx context.Context, player domain.Cell, column int, conn Notifier) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if player != gs.HumanPlayer {
		return domain.ErrNotYourTurn
	}
	if err := gs.playBotLocked(ctx, conn); err != nil {
		return err
	}

	move, err := gs.Game.PlayAs(player, column)
	if err != nil {
		return err
	}
	gs.LastActivity = gs.manager.now()
	gs.announceLocked(move, conn)

	if gs.Game.IsFinished() {
		return nil
	}
	return gs.playBotLocked(ctx, conn)
}

// HandleDisconnect ends an unfinished game in the bot's favour.
func (gs *GameSession) HandleDisconnect(conn Notifier) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.Game.IsFinished() {
		return
	}
	log.Printf("[DISCONNECT] Human left game %s - ending by abandonment", gs.GameID)
	gs.finishLocked(domain.ReasonDisconnect, gs.HumanPlayer.Opponent())
	gs.sendGameOverLocked(conn)
}

// Snapshot returns a copy of the game safe to read without the lock.
func (gs *GameSession) Snapshot() domain.Game {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	g := *gs.Game
	g.Moves = append([]domain.Move(nil), gs.Game.Moves...)
	return g
}

// playBotLocked plays the bot's turn, if it is one. The reply does not
// depend on the caller staying connected.
func (gs *GameSession) playBotLocked(ctx context.Context, conn Notifier) error {
	botSeat := gs.HumanPlayer.Opponent()
	if gs.Game.CurrentPlayer != botSeat || gs.Game.IsFinished() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), BotMoveTimeout)
	defer cancel()

	column, err := gs.bot.ChooseColumn(ctx, gs.Game.Board, botSeat)
	if err != nil {
		log.Printf("[BOT] %s failed to choose a move in game %s: %v", gs.BotName, gs.GameID, err)
		return err
	}
	move, err := gs.Game.PlayAs(botSeat, column)
	if err != nil {
		log.Printf("[BOT] %s chose an illegal column %d in game %s: %v", gs.BotName, column, gs.GameID, err)
		return err
	}
	gs.LastActivity = gs.manager.now()
	gs.announceLocked(move, conn)
	return nil
}

// announceLocked sends move_made and, when the move ended the game,
// game_over followed by the save.
func (gs *GameSession) announceLocked(move domain.Move, conn Notifier) {
	conn.SendMessage(gs.GameID, domain.ServerMessage{
		Type:     domain.MsgMoveMade,
		GameID:   gs.GameID,
		Move:     &move,
		Board:    gs.Game.Board.Cells(),
		NextTurn: gs.Game.CurrentPlayer,
	})

	switch gs.Game.Status {
	case domain.StatusWon:
		gs.finishLocked(domain.ReasonConnectFour, gs.Game.Winner)
	case domain.StatusDraw:
		gs.finishLocked(domain.ReasonDraw, domain.Empty)
	default:
		return
	}
	gs.sendGameOverLocked(conn)
}

func (gs *GameSession) sendGameOverLocked(conn Notifier) {
	msg := domain.ServerMessage{
		Type:   domain.MsgGameOver,
		GameID: gs.GameID,
		Winner: gs.Game.Winner,
		Reason: gs.Reason,
		Board:  gs.Game.Board.Cells(),
	}
	if line, ok := gs.Game.Board.WinningLine(); ok {
		msg.WinningLine = &line
	}
	conn.SendMessage(gs.GameID, msg)
}

// finishLocked records how the game ended and saves it in the background.
func (gs *GameSession) finishLocked(reason string, winner domain.Cell) {
	gs.Reason = reason
	gs.FinishedAt = gs.manager.now()
	if gs.Game.Status == domain.StatusActive {
		gs.Game.Status = domain.StatusWon
		gs.Game.Winner = winner
	}

	rec := &domain.GameRecord{
		GameID:      gs.GameID,
		Difficulty:  gs.Difficulty,
		HumanPlayer: gs.HumanPlayer,
		Winner:      winner,
		Reason:      reason,
		Moves:       gs.Game.Columns(),
		Board:       gs.Game.Board.Cells(),
		CreatedAt:   gs.CreatedAt,
		FinishedAt:  gs.FinishedAt,
	}
	gs.manager.saveGameAsync(rec)
}

// Saves game data to database in background to avoid blocking game_over messages
func (sm *SessionManager) saveGameAsync(rec *domain.GameRecord) {
	if sm.repo == nil {
		return
	}
	sm.saves.Add(1)
	go func() {
		defer sm.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := sm.repo.SaveGame(ctx, rec); err != nil {
			log.Printf("[GAME] Error saving game %s: %v", rec.GameID, err)
		} else {
			log.Printf("[GAME] Game %s saved successfully", rec.GameID)
		}
	}()
}
