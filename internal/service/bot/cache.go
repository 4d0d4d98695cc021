package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
)

const moveKeyPrefix = "c4:move:"

// MoveCache stores search results between requests. Any Get error is
// treated as a miss.
type MoveCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CachedSearcher answers repeated positions from a MoveCache and falls back
// to a MinimaxSearcher on a miss.
type CachedSearcher struct {
	Searcher *MinimaxSearcher
	Cache    MoveCache // Optional, can be nil
	TTL      time.Duration
}

func (c *CachedSearcher) Name() string { return "minimax-cached" }

func MoveCacheKey(board domain.Board, player domain.Cell, depth int) string {
	return fmt.Sprintf("%s%d:%d:%s", moveKeyPrefix, player, depth, board.Key())
}

func (c *CachedSearcher) Evaluate(ctx context.Context, board domain.Board, player domain.Cell) (Result, error) {
	if c.Cache == nil {
		return c.Searcher.Evaluate(ctx, board, player)
	}

	key := MoveCacheKey(board, player, c.Searcher.Depth)
	if raw, err := c.Cache.Get(ctx, key); err == nil {
		if res, ok := decodeResult(raw); ok {
			return res, nil
		}
		log.Printf("[BOT] Ignoring malformed cache entry %s: %q", key, raw)
	}

	res, err := c.Searcher.Evaluate(ctx, board, player)
	if err != nil {
		return res, err
	}

	if err := c.Cache.Set(ctx, key, encodeResult(res), c.TTL); err != nil {
		log.Printf("[BOT] Failed to cache search result: %v", err)
	}
	return res, nil
}

func (c *CachedSearcher) ChooseColumn(ctx context.Context, board domain.Board, player domain.Cell) (int, error) {
	res, err := c.Evaluate(ctx, board, player)
	if err != nil {
		return NoColumn, err
	}
	if !res.HasColumn() {
		return NoColumn, ErrNoLegalMove
	}
	return res.Column, nil
}

func encodeResult(r Result) string {
	return strconv.Itoa(r.Column) + ":" + strconv.Itoa(r.Value)
}

func decodeResult(raw string) (Result, bool) {
	colStr, valStr, found := strings.Cut(raw, ":")
	if !found {
		return Result{}, false
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < NoColumn || col >= domain.Columns {
		return Result{}, false
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return Result{}, false
	}
	return Result{Column: col, Value: val}, true
}
