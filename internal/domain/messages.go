package domain

// Message types exchanged over the websocket.
const (
	MsgInit      = "init"
	MsgMakeMove  = "make_move"
	MsgGameStart = "game_start"
	MsgMoveMade  = "move_made"
	MsgGameOver  = "game_over"
	MsgError     = "error"
)

// Reasons a game ended.
const (
	ReasonConnectFour = "connect_four"
	ReasonDraw        = "draw"
	ReasonDisconnect  = "disconnect"
	ReasonTimeout     = "timeout"
)

type ClientMessage struct {
	Type   string `json:"type"`
	Token  string `json:"token,omitempty"`
	Column int    `json:"column"`
}

type ServerMessage struct {
	Type        string  `json:"type"`
	Message     string  `json:"message,omitempty"`
	GameID      string  `json:"gameId,omitempty"`
	Opponent    string  `json:"opponent,omitempty"`
	YourPlayer  Cell    `json:"yourPlayer,omitempty"`
	Move        *Move   `json:"move,omitempty"`
	Board       [][]int `json:"board,omitempty"`
	NextTurn    Cell    `json:"nextTurn,omitempty"`
	Winner      Cell    `json:"winner,omitempty"`
	WinningLine *Line   `json:"winningLine,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}
