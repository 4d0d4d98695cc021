package domain

import (
	"fmt"
	"strings"
)

// Board is an immutable game position: the grid plus the winner, if any.
// ApplyMove never touches the receiver, so a Board can be shared freely
// between search branches and goroutines.
type Board struct {
	grid   Grid
	winner Cell
	line   Line
}

func NewBoard() Board {
	return Board{}
}

// BoardFromRows validates external data (top row first) and builds a Board.
// A position where both players already own a four-in-a-row is rejected.
func BoardFromRows(rows [][]int) (Board, error) {
	g, err := GridFromRows(rows)
	if err != nil {
		return Board{}, err
	}
	return BoardFromGrid(g)
}

func BoardFromGrid(g Grid) (Board, error) {
	b := Board{grid: g}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if !g[r][c].Valid() {
				return Board{}, fmt.Errorf("%w: value %d at %v", ErrInvalidBoard, g[r][c], Point{r, c})
			}
			line, ok := DetectWin(&b.grid, Point{Row: r, Col: c})
			if !ok {
				continue
			}
			if b.winner != Empty && b.winner != line.Player {
				return Board{}, fmt.Errorf("%w: both players have four in a row", ErrInvalidBoard)
			}
			if b.winner == Empty {
				b.winner = line.Player
				b.line = line
			}
		}
	}
	return b, nil
}

// Grid returns a copy of the cells.
func (b Board) Grid() Grid {
	return b.grid
}

func (b Board) At(p Point) (Cell, error) {
	if !p.Valid() {
		return Empty, ErrInvalidPoint
	}
	return b.grid.At(p), nil
}

// Cells returns the board as plain integers for transport and rendering.
func (b Board) Cells() [][]int {
	return b.grid.Ints()
}

// IsLegalDrop returns the row a piece dropped into col would settle in.
// ok is false when the column is full.
func (b Board) IsLegalDrop(col int) (row int, ok bool, err error) {
	if col < 0 || col >= Columns {
		return -1, false, ErrInvalidColumn
	}

	// here row 0 is the top row, so the scan starts from the bottom
	for r := Rows - 1; r >= 0; r-- {
		if b.grid[r][col] == Empty {
			return r, true, nil
		}
	}
	return -1, false, nil
}

// ApplyMove drops a piece for player into col and returns the resulting
// position. A full column is not an error: ok is false and no Board is
// produced.
func (b Board) ApplyMove(col int, player Cell) (next Board, ok bool, err error) {
	if err := ValidatePlayer(player); err != nil {
		return Board{}, false, err
	}

	row, ok, err := b.IsLegalDrop(col)
	if err != nil || !ok {
		return Board{}, false, err
	}

	next = b
	placed := Point{Row: row, Col: col}
	next.grid[row][col] = player

	if line, won := DetectWin(&next.grid, placed); won {
		next.winner = player
		next.line = line
	}
	return next, true, nil
}

// LegalColumns lists playable columns in ascending order. Search relies on
// this order for its tie-break.
func (b Board) LegalColumns() []int {
	cols := make([]int, 0, Columns)
	for c := 0; c < Columns; c++ {
		if b.grid[0][c] == Empty {
			cols = append(cols, c)
		}
	}
	return cols
}

// Neighbor returns the point next to p in direction d, ok is false when it
// falls off the board.
func (b Board) Neighbor(p Point, d Direction) (Point, bool, error) {
	if !p.Valid() {
		return Point{}, false, ErrInvalidPoint
	}
	if !d.Valid() {
		return Point{}, false, ErrInvalidDirection
	}
	n := p.Add(d)
	if !n.Valid() {
		return Point{}, false, nil
	}
	return n, true, nil
}

// Neighbors returns every on-board neighbor of p in direction order.
func (b Board) Neighbors(p Point) ([]Point, error) {
	if !p.Valid() {
		return nil, ErrInvalidPoint
	}
	out := make([]Point, 0, 8)
	for d := UpLeft; d <= DownRight; d++ {
		if n := p.Add(d); n.Valid() {
			out = append(out, n)
		}
	}
	return out, nil
}

// Winner returns the player holding a four-in-a-row, or Empty.
func (b Board) Winner() Cell {
	return b.winner
}

func (b Board) WinningLine() (Line, bool) {
	return b.line, b.winner != Empty
}

func (b Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if b.grid[0][c] == Empty {
			return false
		}
	}
	return true
}

func (b Board) Status() GameStatus {
	switch {
	case b.winner != Empty:
		return StatusWon
	case b.IsFull():
		return StatusDraw
	default:
		return StatusActive
	}
}

// IsTerminal reports whether the position is won or drawn.
func (b Board) IsTerminal() bool {
	return b.Status() != StatusActive
}

// PieceCount returns how many pieces p has on the board.
func (b Board) PieceCount(p Cell) int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			if b.grid[r][c] == p {
				n++
			}
		}
	}
	return n
}

// ToMove infers whose turn it is from the piece counts, PlayerOne opening.
func (b Board) ToMove() Cell {
	if b.PieceCount(PlayerOne) > b.PieceCount(PlayerTwo) {
		return PlayerTwo
	}
	return PlayerOne
}

// Key is a compact, stable encoding of the cells (one digit per cell, top
// row first) used for cache keys.
func (b Board) Key() string {
	var sb strings.Builder
	sb.Grow(Rows * Columns)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			sb.WriteByte(byte('0' + b.grid[r][c]))
		}
	}
	return sb.String()
}

// String renders the board top to bottom with a column index footer.
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		sb.WriteByte('|')
		for c := 0; c < Columns; c++ {
			sb.WriteByte(' ')
			sb.WriteByte(b.grid[r][c].Glyph())
		}
		sb.WriteString(" |\n")
	}
	sb.WriteByte('+')
	sb.WriteString(strings.Repeat("--", Columns))
	sb.WriteString("-+\n ")
	for c := 0; c < Columns; c++ {
		fmt.Fprintf(&sb, " %d", c)
	}
	sb.WriteString("\n")
	return sb.String()
}
