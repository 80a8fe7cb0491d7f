package model

import "time"

// SquareClick is a click as a client sends it: board coordinates in the
// client's own orientation.
type SquareClick struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Flipped bool `json:"flipped"`
}

// GameRecord summarizes one finished round of a game.
type GameRecord struct {
	GameID     string       `json:"gameId"`
	Round      int          `json:"round"`
	Winner     Color        `json:"winner"`
	Turns      int          `json:"turns"`
	Players    Players      `json:"players"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Board      [8][8]*Piece `json:"board"`
}
