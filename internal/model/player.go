package model

type Player struct {
	ID    string
	Color Color
}

type ClientPlayer struct {
	ID       string `json:"name"`
	Color    Color  `json:"color"`
	TimeLeft int    `json:"timeLeft"` // tenths of a second
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(color Color) *ClientPlayer {
	if color == White {
		return &p.White
	}
	return &p.Black
}

// colorOf returns the seat held by playerID.
func (p Players) colorOf(playerID string) (Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case p.White.ID == playerID:
		return White, true
	case p.Black.ID == playerID:
		return Black, true
	}
	return "", false
}

// MatchFoundEvent is sent to both players when matchmaking pairs them.
type MatchFoundEvent struct {
	GameID string `json:"gameId"`
	Color  Color  `json:"color"`
}
