package domain

// Line describes a four-or-longer run found by DetectWin. End is the terminal
// point of the run in the axis' forward direction, Start the other extremity.
type Line struct {
	Player Cell  `json:"player"`
	Axis   Axis  `json:"axis"`
	Start  Point `json:"start"`
	End    Point `json:"end"`
	Length int   `json:"length"`
}

// DetectWin checks only the lines passing through anchor. Each axis is walked
// in both directions, so the anchor may sit anywhere inside the run.
func DetectWin(g *Grid, anchor Point) (Line, bool) {
	if !anchor.Valid() {
		return Line{}, false
	}
	player := g.At(anchor)
	if !player.IsPlayer() {
		return Line{}, false
	}

	for _, axis := range Axes {
		forward := axis.Forward()
		ahead, end := g.countInDirection(anchor, forward, player)
		behind, start := g.countInDirection(anchor, forward.Opposite(), player)

		if length := ahead + behind + 1; length >= ToWin {
			return Line{
				Player: player,
				Axis:   axis,
				Start:  start,
				End:    end,
				Length: length,
			}, true
		}
	}

	return Line{}, false
}
