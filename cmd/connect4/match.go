package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/bot"
)

// matchUpdate is sent to the UI after every change in the match.
type matchUpdate struct {
	Board    domain.Board
	Move     *domain.Move
	ToMove   domain.Cell
	Status   domain.GameStatus
	Winner   domain.Cell
	Line     *domain.Line
	Notice   string
	Err      error
	Finished bool
}

// runMatch plays seats[0] as PlayerOne against seats[1] until the game ends
// or ctx is cancelled. Illegal human input is reported and asked for again.
func runMatch(ctx context.Context, seats [2]bot.Strategy, updates chan<- matchUpdate) {
	defer close(updates)
	g := domain.NewGame()

	publish := func(u matchUpdate) bool {
		u.Board = g.Board
		u.ToMove = g.CurrentPlayer
		u.Status = g.Status
		u.Winner = g.Winner
		u.Finished = g.IsFinished()
		if line, ok := g.Board.WinningLine(); ok {
			u.Line = &line
		}
		select {
		case updates <- u:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !publish(matchUpdate{}) {
		return
	}
	for !g.IsFinished() {
		mover := g.CurrentPlayer
		strategy := seats[mover-1]

		column, err := strategy.ChooseColumn(ctx, g.Board, mover)
		if err != nil {
			if errors.Is(err, domain.ErrColumnFull) || errors.Is(err, domain.ErrInvalidColumn) {
				if !publish(matchUpdate{Notice: err.Error()}) {
					return
				}
				continue
			}
			publish(matchUpdate{Err: fmt.Errorf("%s: %w", strategy.Name(), err)})
			return
		}

		move, err := g.PlayAs(mover, column)
		if err != nil {
			publish(matchUpdate{Err: fmt.Errorf("%s played column %d: %w", strategy.Name(), column, err)})
			return
		}
		if !publish(matchUpdate{Move: &move}) {
			return
		}
	}
}
