package selfplay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/bot"
)

const ErrUnknownStrategy domain.Error = "unknown strategy"

// ParseStrategy builds a strategy from a command-line name:
//
//	random               uniformly random legal columns
//	easy, medium, hard   the server bots
//	minimax:N            sequential search at depth N
//	parallel:N           parallel search at depth N
func ParseStrategy(name string, seed int64) (bot.Strategy, error) {
	kind, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(name)), ":")

	switch kind {
	case "random":
		return bot.NewRandomMover(seed), nil
	case bot.DifficultyEasy, bot.DifficultyMedium, bot.DifficultyHard:
		return bot.NewStrategy(kind, bot.Options{Seed: seed}), nil
	case "minimax", "parallel":
		if !hasArg {
			return nil, fmt.Errorf("%w: %q needs a depth", ErrUnknownStrategy, name)
		}
		depth, err := strconv.Atoi(arg)
		if err != nil || depth < 1 {
			return nil, fmt.Errorf("%w: bad depth in %q", bot.ErrInvalidDepth, name)
		}
		return &bot.MinimaxSearcher{Depth: depth, Parallel: kind == "parallel"}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// ParsePlayer builds a player whose strategy is rebuilt from name with a
// fresh seed for every arena game.
func ParsePlayer(name string, seed int64) (*Player, error) {
	s, err := ParseStrategy(name, seed)
	if err != nil {
		return nil, err
	}
	p := NewPlayer(name, s)
	p.Seeded = func(seed int64) bot.Strategy {
		s, _ := ParseStrategy(name, seed)
		return s
	}
	return p, nil
}
