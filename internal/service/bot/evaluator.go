package bot

import (
	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
)

// Window scores. The opponent's near-win penalty is smaller in
// magnitude than the reward for our own.
const (
	SCORE_FOUR          = 100
	SCORE_THREE         = 5
	SCORE_TWO           = 2
	PENALTY_OPP_THREE   = 4
	PENALTY_OPP_FOUR    = 100
	CENTER_PIECE_WEIGHT = 3
)

const (
	horizontalWindows = domain.Rows * (domain.Columns - domain.ToWin + 1)
	verticalWindows   = (domain.Rows - domain.ToWin + 1) * domain.Columns
	diagonalWindows   = (domain.Rows - domain.ToWin + 1) * (domain.Columns - domain.ToWin + 1)

	// WindowCount is the number of distinct length-4 windows on the board.
	WindowCount = horizontalWindows + verticalWindows + 2*diagonalWindows

	// MaxHeuristic bounds |Score| for any board and player.
	MaxHeuristic = WindowCount*SCORE_FOUR + CENTER_PIECE_WEIGHT*domain.Rows

	// WinSentinel marks a decided game. It exceeds every heuristic value.
	WinSentinel = MaxHeuristic + 1
)

type window [domain.ToWin]domain.Point

// every window on the board, each listed once
var windows = buildWindows()

func buildWindows() []window {
	out := make([]window, 0, WindowCount)

	add := func(row, col, dRow, dCol int) {
		var w window
		for i := 0; i < domain.ToWin; i++ {
			w[i] = domain.Point{Row: row + i*dRow, Col: col + i*dCol}
		}
		out = append(out, w)
	}

	// horizontal
	for r := 0; r < domain.Rows; r++ {
		for c := 0; c+domain.ToWin <= domain.Columns; c++ {
			add(r, c, 0, 1)
		}
	}
	// vertical
	for c := 0; c < domain.Columns; c++ {
		for r := 0; r+domain.ToWin <= domain.Rows; r++ {
			add(r, c, 1, 0)
		}
	}
	// diagonal \
	for r := 0; r+domain.ToWin <= domain.Rows; r++ {
		for c := 0; c+domain.ToWin <= domain.Columns; c++ {
			add(r, c, 1, 1)
		}
	}
	// diagonal /
	for r := 0; r+domain.ToWin <= domain.Rows; r++ {
		for c := domain.ToWin - 1; c < domain.Columns; c++ {
			add(r, c, 1, -1)
		}
	}

	return out
}

// Score is the heuristic value of b for player, higher is better for player.
// It returns 0 for anything that is not a player.
func Score(b domain.Board, player domain.Cell) int {
	if !player.IsPlayer() {
		return 0
	}
	grid := b.Grid()
	opponent := player.Opponent()

	score := 0
	for r := 0; r < domain.Rows; r++ {
		if grid[r][domain.CenterColumn] == player {
			score += CENTER_PIECE_WEIGHT
		}
	}

	for _, w := range windows {
		mine, theirs, empty := 0, 0, 0
		for _, p := range w {
			switch grid[p.Row][p.Col] {
			case player:
				mine++
			case opponent:
				theirs++
			default:
				empty++
			}
		}
		score += scoreWindow(mine, theirs, empty)
	}

	return score
}

func scoreWindow(mine, theirs, empty int) int {
	switch {
	case mine == 4:
		return SCORE_FOUR
	case mine == 3 && empty == 1:
		return SCORE_THREE
	case mine == 2 && empty == 2:
		return SCORE_TWO
	case theirs == 3 && empty == 1:
		return -PENALTY_OPP_THREE
	case theirs == 4:
		return -PENALTY_OPP_FOUR
	}
	return 0
}
