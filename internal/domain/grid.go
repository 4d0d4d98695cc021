package domain

import "fmt"

// Point is a (row, column) coordinate. Row 0 is the top row.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) Valid() bool {
	return p.Row >= 0 && p.Row < Rows && p.Col >= 0 && p.Col < Columns
}

func (p Point) Add(d Direction) Point {
	dr, dc := d.Offset()
	return Point{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Direction is one of the eight compass offsets around a point.
type Direction int

const (
	UpLeft Direction = iota
	Up
	UpRight
	Left
	Right
	DownLeft
	Down
	DownRight
)

var directionOffsets = [...][2]int{
	UpLeft:    {-1, -1},
	Up:        {-1, 0},
	UpRight:   {-1, 1},
	Left:      {0, -1},
	Right:     {0, 1},
	DownLeft:  {1, -1},
	Down:      {1, 0},
	DownRight: {1, 1},
}

func (d Direction) Valid() bool {
	return d >= UpLeft && d <= DownRight
}

// Offset returns the (row, column) delta of d. It panics on invalid directions.
func (d Direction) Offset() (int, int) {
	o := directionOffsets[d]
	return o[0], o[1]
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return DownRight - d
}

// Axis is a line orientation checked for four-in-a-row.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
	// DiagonalFalling runs from the top-left towards the bottom-right, as
	// rendered with row 0 on top.
	DiagonalFalling
	// DiagonalRising runs from the bottom-left towards the top-right.
	DiagonalRising
)

var Axes = [...]Axis{Horizontal, Vertical, DiagonalFalling, DiagonalRising}

// Forward is the direction a run along the axis is read in; the backward
// direction is its opposite.
func (a Axis) Forward() Direction {
	switch a {
	case Horizontal:
		return Right
	case Vertical:
		return Down
	case DiagonalFalling:
		return DownRight
	default:
		return DownLeft
	}
}

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case DiagonalFalling:
		return "diagonal-falling"
	case DiagonalRising:
		return "diagonal-rising"
	}
	return "unknown"
}

// Grid is the fixed-size cell matrix. It is a value: assignment copies it.
type Grid [Rows][Columns]Cell

// GridFromRows builds a grid from external data, rejecting wrong dimensions
// and any value other than 0, 1 or 2.
func GridFromRows(rows [][]int) (Grid, error) {
	var g Grid
	if len(rows) != Rows {
		return g, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Rows, len(rows))
	}
	for r, row := range rows {
		if len(row) != Columns {
			return g, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidBoard, r, len(row), Columns)
		}
		for c, v := range row {
			cell := Cell(v)
			if !cell.Valid() {
				return g, fmt.Errorf("%w: value %d at %v", ErrInvalidBoard, v, Point{r, c})
			}
			g[r][c] = cell
		}
	}
	return g, nil
}

// At returns the cell at p. p must be valid.
func (g *Grid) At(p Point) Cell {
	return g[p.Row][p.Col]
}

// Ints returns the grid as plain integers, top row first.
func (g *Grid) Ints() [][]int {
	out := make([][]int, Rows)
	for r := range out {
		out[r] = make([]int, Columns)
		for c := 0; c < Columns; c++ {
			out[r][c] = int(g[r][c])
		}
	}
	return out
}

// this counts matching cells walking from p in direction d, excluding p itself
func (g *Grid) countInDirection(p Point, d Direction, want Cell) (int, Point) {
	count := 0
	last := p
	next := p.Add(d)
	for next.Valid() && g.At(next) == want {
		count++
		last = next
		next = next.Add(d)
	}
	return count, last
}
