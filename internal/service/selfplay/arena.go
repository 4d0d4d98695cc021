package selfplay

import (
	"context"
	"fmt"
	"log"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/repository/dataset"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/bot"
	"github.com/JKelly423/connect-4-reinforced-learning/pkg/uid"
	"golang.org/x/sync/errgroup"
)

// SeededStrategy builds a fresh strategy from a seed.
type SeededStrategy func(seed int64) bot.Strategy

// Player is one side of the arena with its running Elo rating.
type Player struct {
	Name     string
	Strategy bot.Strategy
	Rating   int

	// Seeded, when set, gives every arena game its own strategy seeded from
	// Arena.Seed, so a run replays the same whatever the worker count.
	Seeded SeededStrategy
}

func NewPlayer(name string, s bot.Strategy) *Player {
	return &Player{Name: name, Strategy: s, Rating: domain.InitialRating}
}

// GameSink receives the plies of each finished game.
type GameSink interface {
	WriteGame(rows []dataset.PlyRow) error
}

// evaluator is implemented by strategies that can report a search value.
type evaluator interface {
	Evaluate(ctx context.Context, board domain.Board, player domain.Cell) (bot.Result, error)
}

type Arena struct {
	A, B    *Player
	Sink    GameSink // Optional, can be nil
	Workers int
	Seed    int64
}

// GameResult is the outcome of a single arena game.
type GameResult struct {
	GameID string
	First  *Player
	Second *Player
	Winner domain.Cell
	Plies  int
	Rows   []dataset.PlyRow
}

type Summary struct {
	Games   int `json:"games"`
	WinsA   int `json:"winsA"`
	WinsB   int `json:"winsB"`
	Draws   int `json:"draws"`
	RatingA int `json:"ratingA"`
	RatingB int `json:"ratingB"`
	Plies   int `json:"plies"`
}

// Run plays games between A and B, alternating who opens, and updates the
// ratings in game order.
func (a *Arena) Run(ctx context.Context, games int) (Summary, error) {
	results := make([]GameResult, games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Workers, 1))
	for i := 0; i < games; i++ {
		i := i
		first, second := a.A, a.B
		firstStrategy := a.A.strategyFor(a.Seed + 2*int64(i))
		secondStrategy := a.B.strategyFor(a.Seed + 2*int64(i) + 1)
		if i%2 == 1 {
			first, second = a.B, a.A
			firstStrategy, secondStrategy = secondStrategy, firstStrategy
		}
		g.Go(func() error {
			res, err := playGame(ctx, first, second, firstStrategy, secondStrategy)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, res := range results {
		scoreA := domain.ScoreDraw
		switch {
		case res.Winner == domain.Empty:
			sum.Draws++
		case res.seat(a.A) == res.Winner:
			sum.WinsA++
			scoreA = domain.ScoreWin
		default:
			sum.WinsB++
			scoreA = domain.ScoreLoss
		}
		a.A.Rating, a.B.Rating = domain.UpdateRatings(a.A.Rating, a.B.Rating, scoreA)
		sum.Games++
		sum.Plies += res.Plies

		if a.Sink != nil {
			if err := a.Sink.WriteGame(res.Rows); err != nil {
				return sum, fmt.Errorf("write game %s: %w", res.GameID, err)
			}
		}
		log.Printf("[SELFPLAY] Game %s: %s vs %s, winner %v after %d plies (ratings %d/%d)",
			res.GameID, res.First.Name, res.Second.Name, res.Winner, res.Plies, a.A.Rating, a.B.Rating)
	}

	sum.RatingA, sum.RatingB = a.A.Rating, a.B.Rating
	return sum, nil
}

func (p *Player) strategyFor(seed int64) bot.Strategy {
	if p.Seeded != nil {
		return p.Seeded(seed)
	}
	return p.Strategy
}

func (r GameResult) seat(p *Player) domain.Cell {
	if p == r.First {
		return domain.PlayerOne
	}
	return domain.PlayerTwo
}

// PlayGame plays one game to the end, first taking PlayerOne.
func PlayGame(ctx context.Context, first, second *Player) (GameResult, error) {
	return playGame(ctx, first, second, first.Strategy, second.Strategy)
}

func playGame(ctx context.Context, first, second *Player, firstStrategy, secondStrategy bot.Strategy) (GameResult, error) {
	res := GameResult{GameID: uid.GenerateGameID(), First: first, Second: second}
	game := domain.NewGame()

	for !game.IsFinished() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		mover := game.CurrentPlayer
		p, strategy := first, firstStrategy
		if mover == domain.PlayerTwo {
			p, strategy = second, secondStrategy
		}

		before := game.Board
		column, value, err := choose(ctx, strategy, before, mover)
		if err != nil {
			return res, fmt.Errorf("%s: %w", p.Name, err)
		}
		if _, err := game.PlayAs(mover, column); err != nil {
			return res, fmt.Errorf("%s played column %d: %w", p.Name, column, err)
		}
		res.Rows = append(res.Rows, dataset.NewPlyRow(res.GameID, len(res.Rows), before, mover, column, 0, value, p.Name))
	}

	res.Winner = game.Winner
	res.Plies = game.MoveCount()
	for i := range res.Rows {
		res.Rows[i].Outcome = float32(domain.ScoreFor(game.Board, domain.Cell(res.Rows[i].ToMove))*2 - 1)
	}
	return res, nil
}

func choose(ctx context.Context, s bot.Strategy, board domain.Board, player domain.Cell) (int, int, error) {
	if ev, ok := s.(evaluator); ok {
		r, err := ev.Evaluate(ctx, board, player)
		if err != nil {
			return bot.NoColumn, 0, err
		}
		if !r.HasColumn() {
			return bot.NoColumn, 0, bot.ErrNoLegalMove
		}
		return r.Column, r.Value, nil
	}
	column, err := s.ChooseColumn(ctx, board, player)
	return column, 0, err
}
