package bot

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"golang.org/x/sync/errgroup"
)

// NoColumn is reported when there is no move to make.
const NoColumn = -1

const ErrInvalidDepth domain.Error = "invalid search depth"

// Result is a search outcome: the chosen column (or NoColumn) and its value
// from the searching player's perspective.
type Result struct {
	Column int `json:"column"`
	Value  int `json:"value"`
}

func (r Result) HasColumn() bool {
	return r.Column != NoColumn
}

// IsWin reports whether the value is a forced win for the searching player.
func (r Result) IsWin() bool {
	return r.Value == WinSentinel
}

func (r Result) IsLoss() bool {
	return r.Value == -WinSentinel
}

// BestMove runs a depth-limited minimax with alpha-beta pruning, player
// being the maximizing side. Columns are tried in ascending order and only a
// strictly better value replaces the current choice.
func BestMove(board domain.Board, player domain.Cell, depth int) (Result, error) {
	if res, done, err := checkRoot(board, player, depth); done || err != nil {
		return res, err
	}

	s := searcher{player: player, opponent: player.Opponent()}
	return s.alphaBeta(board, depth, math.MinInt, math.MaxInt, true), nil
}

// ParallelBestMove searches every root column in its own goroutine. Each
// branch owns a copy of the board and a full window, and the reduction
// keeps BestMove's ordering rules, so both return the same result. Once ctx
// is done the workers abandon their subtrees and ctx.Err() is returned.
func ParallelBestMove(ctx context.Context, board domain.Board, player domain.Cell, depth int) (Result, error) {
	if res, done, err := checkRoot(board, player, depth); done || err != nil {
		return res, err
	}

	s := searcher{player: player, opponent: player.Opponent()}
	columns := board.LegalColumns()
	children := make([]domain.Board, len(columns))

	for i, col := range columns {
		child, _, _ := board.ApplyMove(col, player)
		// sequential search stops at the first immediate win
		if child.Winner() == player {
			return Result{Column: col, Value: WinSentinel}, nil
		}
		children[i] = child
	}

	stop := &atomic.Bool{}
	release := context.AfterFunc(ctx, func() { stop.Store(true) })
	defer release()
	s.stop = stop

	values := make([]int, len(columns))
	g, gctx := errgroup.WithContext(ctx)
	for i := range children {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			values[i] = s.alphaBeta(children[i], depth-1, math.MinInt, math.MaxInt, false).Value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{Column: NoColumn}, err
	}
	if stop.Load() {
		return Result{Column: NoColumn}, ctx.Err()
	}

	best := Result{Column: NoColumn, Value: math.MinInt}
	for i, col := range columns {
		if values[i] > best.Value {
			best = Result{Column: col, Value: values[i]}
		}
	}
	return best, nil
}

// checkRoot validates the request and settles the cases that need no tree:
// a decided board, depth zero and a full board.
func checkRoot(board domain.Board, player domain.Cell, depth int) (Result, bool, error) {
	if err := domain.ValidatePlayer(player); err != nil {
		return Result{Column: NoColumn}, true, err
	}
	if depth < 0 {
		return Result{Column: NoColumn}, true, ErrInvalidDepth
	}

	switch board.Winner() {
	case player:
		return Result{Column: NoColumn, Value: WinSentinel}, true, nil
	case player.Opponent():
		return Result{Column: NoColumn, Value: -WinSentinel}, true, nil
	}

	if depth == 0 || board.IsFull() {
		return Result{Column: NoColumn, Value: Score(board, player)}, true, nil
	}
	return Result{}, false, nil
}

type searcher struct {
	player   domain.Cell
	opponent domain.Cell
	stop     *atomic.Bool // nil for BestMove
}

func (s searcher) alphaBeta(board domain.Board, depth, alpha, beta int, maximizing bool) Result {
	if s.stop != nil && s.stop.Load() {
		return Result{Column: NoColumn}
	}
	if depth == 0 {
		return Result{Column: NoColumn, Value: Score(board, s.player)}
	}

	columns := board.LegalColumns()
	if len(columns) == 0 {
		// full board without a winner is a draw
		return Result{Column: NoColumn, Value: Score(board, s.player)}
	}

	mover := s.player
	best := Result{Column: NoColumn, Value: math.MinInt}
	if !maximizing {
		mover = s.opponent
		best.Value = math.MaxInt
	}

	for _, col := range columns {
		child, ok, _ := board.ApplyMove(col, mover)
		if !ok {
			continue
		}

		switch child.Winner() {
		case s.player:
			return Result{Column: col, Value: WinSentinel}
		case s.opponent:
			return Result{Column: col, Value: -WinSentinel}
		}

		value := s.alphaBeta(child, depth-1, alpha, beta, !maximizing).Value

		if maximizing {
			if value > best.Value {
				best = Result{Column: col, Value: value}
			}
			alpha = max(alpha, best.Value)
		} else {
			if value < best.Value {
				best = Result{Column: col, Value: value}
			}
			beta = min(beta, best.Value)
		}

		if alpha >= beta {
			break // cutoff
		}
	}

	return best
}
