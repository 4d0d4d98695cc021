package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/bot"
)

type recorder struct {
	mu       sync.Mutex
	messages []domain.ServerMessage
}

func (r *recorder) SendMessage(gameID string, msg domain.ServerMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	for i, m := range r.messages {
		out[i] = m.Type
	}
	return out
}

func (r *recorder) last() domain.ServerMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messages[len(r.messages)-1]
}

type memoryRepo struct {
	mu    sync.Mutex
	saved map[string]*domain.GameRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{saved: make(map[string]*domain.GameRecord)}
}

func (m *memoryRepo) SaveGame(ctx context.Context, rec *domain.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[rec.GameID] = rec
	return nil
}

func (m *memoryRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[gameID], nil
}

func (m *memoryRepo) ListRecent(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.GameRecord{}
	for _, rec := range m.saved {
		if len(out) == limit {
			break
		}
		out = append(out, *rec)
	}
	return out, nil
}

// scripted plays a fixed column list.
type scripted struct {
	cols []int
	next int
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) ChooseColumn(ctx context.Context, board domain.Board, player domain.Cell) (int, error) {
	if s.next >= len(s.cols) {
		return bot.NoColumn, bot.ErrNoLegalMove
	}
	col := s.cols[s.next]
	s.next++
	return col, nil
}

// flaky fails its first calls and then plays the leftmost legal column.
type flaky struct {
	fails int
}

func (f *flaky) Name() string { return "flaky" }

func (f *flaky) ChooseColumn(ctx context.Context, board domain.Board, player domain.Cell) (int, error) {
	if f.fails > 0 {
		f.fails--
		return bot.NoColumn, errors.New("engine unavailable")
	}
	return board.LegalColumns()[0], nil
}

func newManager(repo GameRepository, cols ...int) *SessionManager {
	return NewSessionManager(repo, func(string) bot.Strategy {
		return &scripted{cols: cols}
	})
}

func TestCreateSessionValidates(t *testing.T) {
	sm := newManager(nil)
	if _, err := sm.CreateSession("impossible", domain.PlayerOne); !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("bad difficulty err = %v", err)
	}
	if _, err := sm.CreateSession(bot.DifficultyEasy, domain.Empty); !errors.Is(err, domain.ErrInvalidPlayer) {
		t.Fatalf("bad seat err = %v", err)
	}

	s, err := sm.CreateSession(bot.DifficultyHard, domain.PlayerOne)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if s.BotName != "Charles" {
		t.Fatalf("bot name %q", s.BotName)
	}
	if got, ok := sm.GetSession(s.GameID); !ok || got != s {
		t.Fatalf("session not registered")
	}
	if err := sm.RemoveSession(s.GameID); err != nil {
		t.Fatalf("RemoveSession: %v", err)
	}
	if err := sm.RemoveSession(s.GameID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("second remove err = %v", err)
	}
}

func TestHumanWinIsAnnouncedAndSaved(t *testing.T) {
	repo := newMemoryRepo()
	sm := newManager(repo, 6, 6, 6)
	s, _ := sm.CreateSession(bot.DifficultyMedium, domain.PlayerOne)
	conn := &recorder{}
	ctx := context.Background()

	if err := s.Start(ctx, conn); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, col := range []int{0, 1, 2, 3} {
		if err := s.HandleMove(ctx, domain.PlayerOne, col, conn); err != nil {
			t.Fatalf("HandleMove(%d): %v", col, err)
		}
	}
	sm.Wait()

	want := []string{"game_start", "move_made", "move_made", "move_made", "move_made", "move_made", "move_made", "move_made", "game_over"}
	got := conn.types()
	if len(got) != len(want) {
		t.Fatalf("messages %v", got)
	}
	over := conn.last()
	if over.Winner != domain.PlayerOne || over.Reason != domain.ReasonConnectFour || over.WinningLine == nil {
		t.Fatalf("game_over = %+v", over)
	}

	rec := repo.saved[s.GameID]
	if rec == nil {
		t.Fatalf("game not saved")
	}
	if rec.Winner != domain.PlayerOne || len(rec.Moves) != 7 || rec.Difficulty != bot.DifficultyMedium {
		t.Fatalf("record = %+v", rec)
	}

	if err := s.HandleMove(ctx, domain.PlayerOne, 4, conn); !errors.Is(err, domain.ErrGameOver) {
		t.Fatalf("move after the end err = %v", err)
	}
}

func TestBotOpensWhenHumanSitsSecond(t *testing.T) {
	sm := newManager(nil, 3)
	s, _ := sm.CreateSession(bot.DifficultyEasy, domain.PlayerTwo)
	conn := &recorder{}

	if err := s.Start(context.Background(), conn); err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := conn.types()
	if len(got) != 2 || got[0] != domain.MsgGameStart || got[1] != domain.MsgMoveMade {
		t.Fatalf("messages %v", got)
	}
	move := conn.last().Move
	if move == nil || move.Column != 3 || move.Player != domain.PlayerOne {
		t.Fatalf("bot move %+v", move)
	}
	if conn.last().NextTurn != domain.PlayerTwo {
		t.Fatalf("next turn %v", conn.last().NextTurn)
	}
}

func TestHandleMoveRejections(t *testing.T) {
	sm := newManager(nil, 0, 0, 0)
	s, _ := sm.CreateSession(bot.DifficultyMedium, domain.PlayerOne)
	conn := &recorder{}
	ctx := context.Background()

	if err := s.HandleMove(ctx, domain.PlayerTwo, 0, conn); !errors.Is(err, domain.ErrNotYourTurn) {
		t.Fatalf("bot seat err = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.HandleMove(ctx, domain.PlayerOne, 0, conn); err != nil {
			t.Fatalf("HandleMove: %v", err)
		}
	}
	if err := s.HandleMove(ctx, domain.PlayerOne, 0, conn); !errors.Is(err, domain.ErrColumnFull) {
		t.Fatalf("full column err = %v", err)
	}
	if err := s.HandleMove(ctx, domain.PlayerOne, 11, conn); !errors.Is(err, domain.ErrInvalidColumn) {
		t.Fatalf("bad column err = %v", err)
	}
	if snap := s.Snapshot(); snap.MoveCount() != 6 {
		t.Fatalf("moves = %d", snap.MoveCount())
	}
}

func TestDisconnectForfeits(t *testing.T) {
	repo := newMemoryRepo()
	sm := newManager(repo, 5)
	s, _ := sm.CreateSession(bot.DifficultyEasy, domain.PlayerOne)
	conn := &recorder{}

	if err := s.HandleMove(context.Background(), domain.PlayerOne, 2, conn); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	s.HandleDisconnect(conn)
	s.HandleDisconnect(conn)
	sm.Wait()

	over := conn.last()
	if over.Type != domain.MsgGameOver || over.Reason != domain.ReasonDisconnect || over.Winner != domain.PlayerTwo {
		t.Fatalf("game_over = %+v", over)
	}
	if n := len(conn.types()); n != 3 {
		t.Fatalf("%d messages, second disconnect should be silent", n)
	}
	if rec := repo.saved[s.GameID]; rec == nil || rec.Reason != domain.ReasonDisconnect {
		t.Fatalf("record = %+v", rec)
	}
}

func TestCleanupIdleSessions(t *testing.T) {
	repo := newMemoryRepo()
	sm := newManager(repo)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return clock }

	old, _ := sm.CreateSession(bot.DifficultyEasy, domain.PlayerOne)
	clock = clock.Add(50 * time.Minute)
	fresh, _ := sm.CreateSession(bot.DifficultyEasy, domain.PlayerOne)
	clock = clock.Add(20 * time.Minute)

	if live := sm.GetActiveGames(); len(live) != 2 {
		t.Fatalf("live games = %d", len(live))
	}
	if n := sm.CleanupIdleSessions(time.Hour); n != 1 {
		t.Fatalf("removed %d sessions, want 1", n)
	}
	sm.Wait()

	if _, ok := sm.GetSession(old.GameID); ok {
		t.Fatalf("idle session kept")
	}
	if _, ok := sm.GetSession(fresh.GameID); !ok {
		t.Fatalf("fresh session removed")
	}
	if rec := repo.saved[old.GameID]; rec == nil || rec.Reason != domain.ReasonTimeout || rec.Winner != domain.PlayerTwo {
		t.Fatalf("timeout record = %+v", rec)
	}
}

func TestHistoryService(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.GetGame(ctx, "missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("missing game err = %v", err)
	}

	repo.saved["a"] = &domain.GameRecord{GameID: "a"}
	rec, err := svc.GetGame(ctx, "a")
	if err != nil || rec.GameID != "a" {
		t.Fatalf("GetGame = %+v, %v", rec, err)
	}

	games, err := svc.RecentGames(ctx, -5)
	if err != nil || len(games) != 1 {
		t.Fatalf("RecentGames = %v, %v", games, err)
	}
}

func TestBotReplySurvivesCancelledRequest(t *testing.T) {
	sm := NewSessionManager(nil, func(string) bot.Strategy {
		return &bot.MinimaxSearcher{Depth: 3, Parallel: true}
	})
	s, _ := sm.CreateSession(bot.DifficultyHard, domain.PlayerOne)
	conn := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.HandleMove(ctx, domain.PlayerOne, 3, conn); err != nil {
		t.Fatalf("HandleMove with a cancelled request: %v", err)
	}
	snap := s.Snapshot()
	if snap.MoveCount() != 2 || snap.CurrentPlayer != domain.PlayerOne {
		t.Fatalf("after first move: %d moves, %v to play", snap.MoveCount(), snap.CurrentPlayer)
	}

	if err := s.HandleMove(context.Background(), domain.PlayerOne, 3, conn); err != nil {
		t.Fatalf("second HandleMove: %v", err)
	}
	if snap := s.Snapshot(); snap.MoveCount() != 4 {
		t.Fatalf("after second move: %d moves", snap.MoveCount())
	}
}

func TestFailedBotTurnIsRetried(t *testing.T) {
	sm := NewSessionManager(nil, func(string) bot.Strategy { return &flaky{fails: 1} })
	s, _ := sm.CreateSession(bot.DifficultyMedium, domain.PlayerOne)
	conn := &recorder{}
	ctx := context.Background()

	if err := s.HandleMove(ctx, domain.PlayerOne, 3, conn); err == nil {
		t.Fatalf("bot failure not reported")
	}
	if snap := s.Snapshot(); snap.MoveCount() != 1 || snap.CurrentPlayer != domain.PlayerTwo {
		t.Fatalf("after failed reply: %d moves, %v to play", snap.MoveCount(), snap.CurrentPlayer)
	}

	if err := s.HandleMove(ctx, domain.PlayerOne, 4, conn); err != nil {
		t.Fatalf("HandleMove after the failure: %v", err)
	}
	snap := s.Snapshot()
	if snap.MoveCount() != 4 || snap.CurrentPlayer != domain.PlayerOne {
		t.Fatalf("game stuck: %d moves, %v to play", snap.MoveCount(), snap.CurrentPlayer)
	}
	want := []int{3, 0, 4, 0}
	for i, m := range snap.Moves {
		if m.Column != want[i] {
			t.Fatalf("moves %+v, want columns %v", snap.Moves, want)
		}
	}
}
