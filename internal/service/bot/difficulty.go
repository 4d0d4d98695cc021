package bot

import (
	"time"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	DefaultMediumDepth = 2
	DefaultHardDepth   = 5
)

var BotNames = map[string]string{
	DifficultyEasy:   "Alice",
	DifficultyMedium: "Bob",
	DifficultyHard:   "Charles",
}

func GetBotName(difficulty string) string {
	if name, ok := BotNames[difficulty]; ok {
		return name
	}
	return "BOT"
}

func IsValidDifficulty(difficulty string) bool {
	_, ok := BotNames[difficulty]
	return ok
}

// Options tunes the strategies built by NewStrategy.
type Options struct {
	MediumDepth int
	HardDepth   int
	Seed        int64
	Cache       MoveCache
	CacheTTL    time.Duration
}

// NewStrategy selects the bot for a difficulty. Unknown names fall back to
// medium.
func NewStrategy(difficulty string, opts Options) Strategy {
	mediumDepth := opts.MediumDepth
	if mediumDepth <= 0 {
		mediumDepth = DefaultMediumDepth
	}
	hardDepth := opts.HardDepth
	if hardDepth <= 0 {
		hardDepth = DefaultHardDepth
	}

	switch difficulty {
	case DifficultyEasy:
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return NewRandomMover(seed)
	case DifficultyHard:
		return &CachedSearcher{
			Searcher: &MinimaxSearcher{Depth: hardDepth, Parallel: true},
			Cache:    opts.Cache,
			TTL:      opts.CacheTTL,
		}
	default:
		return &CachedSearcher{
			Searcher: &MinimaxSearcher{Depth: mediumDepth},
			Cache:    opts.Cache,
			TTL:      opts.CacheTTL,
		}
	}
}
