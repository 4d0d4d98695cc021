package domain

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

// parseBoard builds a board from rows drawn top to bottom with '.', 'X', 'O'.
func parseBoard(t *testing.T, rows ...string) Board {
	t.Helper()
	ints := make([][]int, len(rows))
	for r, line := range rows {
		ints[r] = make([]int, len(line))
		for c, ch := range line {
			switch ch {
			case 'X':
				ints[r][c] = int(PlayerOne)
			case 'O':
				ints[r][c] = int(PlayerTwo)
			}
		}
	}
	b, err := BoardFromRows(ints)
	if err != nil {
		t.Fatalf("BoardFromRows: %v", err)
	}
	return b
}

// randomBoard plays random legal moves, stopping before any move that
// would end the game.
func randomBoard(rng *rand.Rand, plies int) Board {
	b := NewBoard()
	player := PlayerOne
	for i := 0; i < plies; i++ {
		cols := b.LegalColumns()
		if len(cols) == 0 {
			break
		}
		next, _, _ := b.ApplyMove(cols[rng.Intn(len(cols))], player)
		if next.Winner() != Empty {
			break
		}
		b = next
		player = player.Opponent()
	}
	return b
}

func mustApply(t *testing.T, b Board, col int, player Cell) Board {
	t.Helper()
	next, ok, err := b.ApplyMove(col, player)
	if err != nil {
		t.Fatalf("ApplyMove(%d, %v): %v", col, player, err)
	}
	if !ok {
		t.Fatalf("ApplyMove(%d, %v): column full", col, player)
	}
	return next
}

func TestIsLegalDropReturnsLowestEmptyRow(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		b := randomBoard(rng, rng.Intn(Rows*Columns))
		grid := b.Grid()
		for col := 0; col < Columns; col++ {
			want := -1
			for r := Rows - 1; r >= 0; r-- {
				if grid[r][col] == Empty {
					want = r
					break
				}
			}

			row, ok, err := b.IsLegalDrop(col)
			if err != nil {
				t.Fatalf("IsLegalDrop(%d): %v", col, err)
			}
			if ok != (grid[0][col] == Empty) {
				t.Fatalf("IsLegalDrop(%d) ok=%v but top cell is %v\n%s", col, ok, grid[0][col], b)
			}
			if ok && row != want {
				t.Fatalf("IsLegalDrop(%d) = %d, want %d\n%s", col, row, want, b)
			}
		}
	}
}

func TestIsLegalDropRejectsOutOfRangeColumn(t *testing.T) {
	b := NewBoard()
	for _, col := range []int{-1, Columns, 100} {
		if _, _, err := b.IsLegalDrop(col); !errors.Is(err, ErrInvalidColumn) {
			t.Errorf("IsLegalDrop(%d) err = %v, want ErrInvalidColumn", col, err)
		}
		if _, _, err := b.ApplyMove(col, PlayerOne); !errors.Is(err, ErrInvalidColumn) {
			t.Errorf("ApplyMove(%d) err = %v, want ErrInvalidColumn", col, err)
		}
	}
}

func TestApplyMoveLeavesParentUntouched(t *testing.T) {
	b := mustApply(t, NewBoard(), 3, PlayerOne)
	before := b

	first := mustApply(t, b, 4, PlayerTwo)
	second := mustApply(t, b, 4, PlayerTwo)

	if first != second {
		t.Fatalf("same move produced different boards:\n%s\n%s", first, second)
	}
	if b != before {
		t.Fatalf("parent board changed:\n%s", b)
	}
	if got, _ := first.At(Point{Row: Rows - 1, Col: 4}); got != PlayerTwo {
		t.Fatalf("piece landed wrong, cell = %v", got)
	}
	if got, _ := b.At(Point{Row: Rows - 1, Col: 4}); got != Empty {
		t.Fatalf("parent gained a piece: %v", got)
	}
}

func TestApplyMoveFullColumnIsNotAnError(t *testing.T) {
	b := NewBoard()
	player := PlayerOne
	for i := 0; i < Rows; i++ {
		b = mustApply(t, b, 0, player)
		player = player.Opponent()
	}

	next, ok, err := b.ApplyMove(0, player)
	if err != nil {
		t.Fatalf("full column returned error %v", err)
	}
	if ok {
		t.Fatalf("full column accepted a piece:\n%s", next)
	}
	for _, col := range b.LegalColumns() {
		if col == 0 {
			t.Fatalf("full column listed as legal")
		}
	}
}

func TestApplyMoveRejectsInvalidPlayer(t *testing.T) {
	b := NewBoard()
	for _, p := range []Cell{Empty, Cell(3), Cell(-1)} {
		_, ok, err := b.ApplyMove(2, p)
		if !errors.Is(err, ErrInvalidPlayer) || ok {
			t.Errorf("ApplyMove with %d: ok=%v err=%v", p, ok, err)
		}
	}
	if b != NewBoard() {
		t.Fatalf("board mutated by rejected moves")
	}
}

func TestLegalColumnsAscending(t *testing.T) {
	b := parseBoard(t,
		"X.O.X..",
		"O.X.O..",
		"X.O.X..",
		"O.X.O..",
		"X.O.X..",
		"O.X.O..",
	)
	got := b.LegalColumns()
	want := []int{1, 3, 5, 6}
	if len(got) != len(want) {
		t.Fatalf("LegalColumns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LegalColumns = %v, want %v", got, want)
		}
	}
}

func TestNeighbor(t *testing.T) {
	b := NewBoard()

	tests := []struct {
		p    Point
		d    Direction
		want Point
		ok   bool
	}{
		{Point{0, 0}, UpLeft, Point{}, false},
		{Point{0, 0}, Right, Point{0, 1}, true},
		{Point{0, 0}, DownRight, Point{1, 1}, true},
		{Point{5, 6}, Down, Point{}, false},
		{Point{5, 6}, UpLeft, Point{4, 5}, true},
		{Point{3, 3}, DownLeft, Point{4, 2}, true},
		{Point{3, 3}, Up, Point{2, 3}, true},
	}
	for _, tt := range tests {
		got, ok, err := b.Neighbor(tt.p, tt.d)
		if err != nil {
			t.Fatalf("Neighbor(%v, %d): %v", tt.p, tt.d, err)
		}
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Neighbor(%v, %d) = %v, %v; want %v, %v", tt.p, tt.d, got, ok, tt.want, tt.ok)
		}
	}

	if _, _, err := b.Neighbor(Point{Rows, 0}, Up); !errors.Is(err, ErrInvalidPoint) {
		t.Errorf("off-board point err = %v", err)
	}
	if _, _, err := b.Neighbor(Point{0, -1}, Up); !errors.Is(err, ErrInvalidPoint) {
		t.Errorf("negative column err = %v", err)
	}
	for _, d := range []Direction{-1, 8} {
		if _, _, err := b.Neighbor(Point{2, 2}, d); !errors.Is(err, ErrInvalidDirection) {
			t.Errorf("direction %d err = %v", d, err)
		}
	}

	corner, _ := b.Neighbors(Point{0, 0})
	if len(corner) != 3 {
		t.Errorf("corner has %d neighbors, want 3", len(corner))
	}
	middle, _ := b.Neighbors(Point{2, 3})
	if len(middle) != 8 {
		t.Errorf("middle has %d neighbors, want 8", len(middle))
	}
}

func TestBoardFromRowsValidatesInput(t *testing.T) {
	good := NewBoard().Cells()

	bad := NewBoard().Cells()
	bad[2][4] = 3
	if _, err := BoardFromRows(bad); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("cell value 3: err = %v", err)
	}

	bad = NewBoard().Cells()
	bad[5][0] = -1
	if _, err := BoardFromRows(bad); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("cell value -1: err = %v", err)
	}

	if _, err := BoardFromRows(good[:5]); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("short board: err = %v", err)
	}

	ragged := NewBoard().Cells()
	ragged[1] = ragged[1][:6]
	if _, err := BoardFromRows(ragged); !errors.Is(err, ErrInvalidBoard) {
		t.Errorf("ragged board: err = %v", err)
	}

	if _, err := BoardFromRows(good); err != nil {
		t.Errorf("empty board rejected: %v", err)
	}
}

func TestBoardFromRowsFindsExistingWinner(t *testing.T) {
	b := parseBoard(t,
		".......",
		".......",
		".......",
		".......",
		"OOO....",
		"XXXX...",
	)
	if b.Winner() != PlayerOne {
		t.Fatalf("winner = %v, want player one", b.Winner())
	}
	if b.Status() != StatusWon {
		t.Fatalf("status = %v", b.Status())
	}

	rows := NewBoard().Cells()
	rows[5] = []int{1, 1, 1, 1, 2, 2, 2}
	rows[4] = []int{0, 0, 0, 0, 2, 2, 2}
	rows[3] = []int{0, 0, 0, 0, 0, 0, 2}
	rows[2] = []int{0, 0, 0, 0, 0, 0, 2}
	if _, err := BoardFromRows(rows); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("two winners accepted, err = %v", err)
	}
}

func TestStatus(t *testing.T) {
	if s := NewBoard().Status(); s != StatusActive {
		t.Fatalf("empty board status = %v", s)
	}

	full := parseBoard(t,
		"XXOOXXO",
		"XXOOXXO",
		"OOXXOOX",
		"XXOOXXO",
		"OOXXOOX",
		"OOXXOOX",
	)
	if full.Winner() != Empty {
		t.Fatalf("drawn board has winner %v", full.Winner())
	}
	if s := full.Status(); s != StatusDraw {
		t.Fatalf("full board status = %v", s)
	}
	if cols := full.LegalColumns(); len(cols) != 0 {
		t.Fatalf("full board legal columns = %v", cols)
	}
	if !full.IsTerminal() {
		t.Fatalf("full board not terminal")
	}
}

func TestStringRendering(t *testing.T) {
	b := mustApply(t, NewBoard(), 3, PlayerOne)
	b = mustApply(t, b, 3, PlayerTwo)
	b = mustApply(t, b, 0, PlayerOne)

	want := strings.Join([]string{
		"| . . . . . . . |",
		"| . . . . . . . |",
		"| . . . . . . . |",
		"| . . . . . . . |",
		"| . . . O . . . |",
		"| X . . X . . . |",
		"+---------------+",
		"  0 1 2 3 4 5 6",
		"",
	}, "\n")
	if got := b.String(); got != want {
		t.Fatalf("String() =\n%s\nwant\n%s", got, want)
	}
	if b.String() != b.String() {
		t.Fatalf("rendering not deterministic")
	}
}

func TestKeyAndToMove(t *testing.T) {
	b := mustApply(t, NewBoard(), 6, PlayerOne)
	key := b.Key()
	if len(key) != Rows*Columns {
		t.Fatalf("key length %d", len(key))
	}
	if key[len(key)-1] != '1' {
		t.Fatalf("key = %s, want last cell 1", key)
	}
	if b.ToMove() != PlayerTwo {
		t.Fatalf("ToMove = %v", b.ToMove())
	}
	if NewBoard().ToMove() != PlayerOne {
		t.Fatalf("empty board ToMove should be player one")
	}
}
