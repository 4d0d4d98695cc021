package domain

// Cell is the content of a single board position. A player is identified by
// the cell value its pieces occupy.
type Cell int

const (
	Empty     Cell = 0
	PlayerOne Cell = 1
	PlayerTwo Cell = 2
)

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4

	CenterColumn = Columns / 2
)

// Valid reports whether c is one of the three cell values.
func (c Cell) Valid() bool {
	return c == Empty || c == PlayerOne || c == PlayerTwo
}

// IsPlayer reports whether c names a player rather than an empty cell.
func (c Cell) IsPlayer() bool {
	return c == PlayerOne || c == PlayerTwo
}

// Opponent returns the other player. It returns Empty for non-player values.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return Empty
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case PlayerOne:
		return "player one"
	case PlayerTwo:
		return "player two"
	}
	return "invalid"
}

// Glyph is the single-character form used by the text rendering.
func (c Cell) Glyph() byte {
	switch c {
	case PlayerOne:
		return 'X'
	case PlayerTwo:
		return 'O'
	}
	return '.'
}

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidBoard     Error = "invalid board"
	ErrInvalidColumn    Error = "invalid column"
	ErrInvalidPoint     Error = "invalid point"
	ErrInvalidDirection Error = "invalid direction"
	ErrInvalidPlayer    Error = "invalid player"
	ErrColumnFull       Error = "column is full"
	ErrGameOver         Error = "game is already over"
	ErrNotYourTurn      Error = "not your turn"
)

// ValidatePlayer returns ErrInvalidPlayer unless p is PlayerOne or PlayerTwo.
func ValidatePlayer(p Cell) error {
	if !p.IsPlayer() {
		return ErrInvalidPlayer
	}
	return nil
}
