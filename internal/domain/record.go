package domain

import "time"

// GameRecord is a finished human-versus-bot game as it is stored.
type GameRecord struct {
	GameID      string    `json:"gameId"`
	Difficulty  string    `json:"difficulty"`
	HumanPlayer Cell      `json:"humanPlayer"`
	Winner      Cell      `json:"winner"`
	Reason      string    `json:"reason"`
	Moves       []int     `json:"moves"`
	Board       [][]int   `json:"board"`
	CreatedAt   time.Time `json:"createdAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// Replay rebuilds the game from its move list.
func (r *GameRecord) Replay() (*Game, error) {
	return Replay(r.Moves)
}
