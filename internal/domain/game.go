package domain

// Move is one ply of a game's history.
type Move struct {
	Column int  `json:"column"`
	Row    int  `json:"row"`
	Player Cell `json:"player"`
}

// Game tracks a match in progress: the current position, whose turn it is
// and every move made so far.
type Game struct {
	Board         Board
	CurrentPlayer Cell
	Status        GameStatus
	Winner        Cell
	Moves         []Move
}

func NewGame() *Game {
	return &Game{
		Board:         NewBoard(),
		CurrentPlayer: PlayerOne,
		Status:        StatusActive,
		Winner:        Empty,
	}
}

// MoveCount is the number of plies played.
func (g *Game) MoveCount() int {
	return len(g.Moves)
}

// Play drops a piece for the player to move and advances the turn.
func (g *Game) Play(column int) (Move, error) {
	if g.IsFinished() {
		return Move{}, ErrGameOver
	}

	player := g.CurrentPlayer
	row, ok, err := g.Board.IsLegalDrop(column)
	if err != nil {
		return Move{}, err
	}
	if !ok {
		return Move{}, ErrColumnFull
	}

	next, _, err := g.Board.ApplyMove(column, player)
	if err != nil {
		return Move{}, err
	}

	move := Move{Column: column, Row: row, Player: player}
	g.Board = next
	g.Moves = append(g.Moves, move)
	g.Status = next.Status()

	switch g.Status {
	case StatusWon:
		g.Winner = next.Winner()
	case StatusActive:
		g.CurrentPlayer = player.Opponent()
	}

	return move, nil
}

// PlayAs is Play with a check that it is player's turn.
func (g *Game) PlayAs(player Cell, column int) (Move, error) {
	if err := ValidatePlayer(player); err != nil {
		return Move{}, err
	}
	if g.IsFinished() {
		return Move{}, ErrGameOver
	}
	if g.CurrentPlayer != player {
		return Move{}, ErrNotYourTurn
	}
	return g.Play(column)
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}

// Replay rebuilds a game from its column sequence, PlayerOne opening.
func Replay(columns []int) (*Game, error) {
	g := NewGame()
	for _, col := range columns {
		if _, err := g.Play(col); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Positions returns the board after every ply, starting with the empty board.
func (g *Game) Positions() []Board {
	out := make([]Board, 0, len(g.Moves)+1)
	b := NewBoard()
	out = append(out, b)
	for _, m := range g.Moves {
		b, _, _ = b.ApplyMove(m.Column, m.Player)
		out = append(out, b)
	}
	return out
}

// Columns returns the column sequence of the history.
func (g *Game) Columns() []int {
	cols := make([]int, len(g.Moves))
	for i, m := range g.Moves {
		cols[i] = m.Column
	}
	return cols
}
