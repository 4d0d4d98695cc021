package bot

import (
	"context"
	"math/rand"
	"sync"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
)

const ErrNoLegalMove domain.Error = "no legal move"

// Strategy picks the next column for player on board.
type Strategy interface {
	Name() string
	ChooseColumn(ctx context.Context, board domain.Board, player domain.Cell) (int, error)
}

// Human forwards columns chosen by a person, e.g. from a console prompt or a
// websocket message. Input is validated against the board before use.
type Human struct {
	Input <-chan int
}

func (h *Human) Name() string { return "human" }

func (h *Human) ChooseColumn(ctx context.Context, board domain.Board, player domain.Cell) (int, error) {
	if err := domain.ValidatePlayer(player); err != nil {
		return NoColumn, err
	}
	select {
	case <-ctx.Done():
		return NoColumn, ctx.Err()
	case col, ok := <-h.Input:
		if !ok {
			return NoColumn, ErrNoLegalMove
		}
		_, legal, err := board.IsLegalDrop(col)
		if err != nil {
			return NoColumn, err
		}
		if !legal {
			return NoColumn, domain.ErrColumnFull
		}
		return col, nil
	}
}

// RandomMover plays a uniformly random legal column.
type RandomMover struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomMover(seed int64) *RandomMover {
	return &RandomMover{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomMover) Name() string { return "random" }

func (r *RandomMover) ChooseColumn(ctx context.Context, board domain.Board, player domain.Cell) (int, error) {
	if err := domain.ValidatePlayer(player); err != nil {
		return NoColumn, err
	}
	validColumns := board.LegalColumns()
	if len(validColumns) == 0 {
		return NoColumn, ErrNoLegalMove
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return validColumns[r.rng.Intn(len(validColumns))], nil
}

// MinimaxSearcher plays the column chosen by BestMove at a fixed depth.
type MinimaxSearcher struct {
	Depth    int
	Parallel bool
}

func (m *MinimaxSearcher) Name() string { return "minimax" }

// Evaluate returns the full search result rather than just the column.
func (m *MinimaxSearcher) Evaluate(ctx context.Context, board domain.Board, player domain.Cell) (Result, error) {
	if m.Parallel {
		return ParallelBestMove(ctx, board, player, m.Depth)
	}
	return BestMove(board, player, m.Depth)
}

func (m *MinimaxSearcher) ChooseColumn(ctx context.Context, board domain.Board, player domain.Cell) (int, error) {
	res, err := m.Evaluate(ctx, board, player)
	if err != nil {
		return NoColumn, err
	}
	if !res.HasColumn() {
		return NoColumn, ErrNoLegalMove
	}
	return res.Column, nil
}
