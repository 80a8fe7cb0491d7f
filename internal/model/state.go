package model

// CastlingRights for one color. Rights are only ever cleared.
type CastlingRights struct {
	KingSide  bool `json:"kingSide"`
	QueenSide bool `json:"queenSide"`
}

// Outcome is terminal once Over is set; only Reset leaves it.
type Outcome struct {
	Over   bool   `json:"over"`
	Winner *Color `json:"winner"`
}

// Selection is the piece picked up for the turn in progress.
type Selection struct {
	Piece  Piece    `json:"piece"`
	Origin Position `json:"origin"`
}

// Turn describes the latest commit, for highlighting.
type Turn struct {
	Color        Color      `json:"color"`
	Piece        Piece      `json:"piece"`
	Origin       Position   `json:"origin"`
	Destinations []Position `json:"destinations"`
}

// GameState is the split chess rule engine. It is driven by one caller at a
// time: Click, Confirm and Reset are rejected while another input (or an
// observer it notified) is still being processed.
type GameState struct {
	board    Board
	turn     Color
	castling map[Color]CastlingRights
	// enPassant is the square skipped by the previous ply's double advance.
	enPassant *Position
	outcome   Outcome
	lastTurn  *Turn
	turns     int

	selection    *Selection
	destinations []Position
	staged       []Position
	displaced    map[Position]Square

	busy      bool
	observers []func(Snapshot)
}

func NewGameState() *GameState {
	s := &GameState{}
	s.reset()
	return s
}

// Reset restores the starting position and clears all derived state.
func (s *GameState) Reset() bool {
	if !s.enter() {
		return false
	}
	defer s.leave()

	s.reset()
	s.notify()
	return true
}

func (s *GameState) reset() {
	s.board = NewBoard()
	s.turn = White
	s.castling = map[Color]CastlingRights{
		White: {KingSide: true, QueenSide: true},
		Black: {KingSide: true, QueenSide: true},
	}
	s.enPassant = nil
	s.outcome = Outcome{}
	s.lastTurn = nil
	s.turns = 0
	s.clearSelection()
}

func (s *GameState) clearSelection() {
	s.selection = nil
	s.destinations = []Position{}
	s.staged = []Position{}
	s.displaced = make(map[Position]Square)
}

// Observe registers fn to be called with a snapshot after every accepted
// input. Inputs issued from fn are rejected.
func (s *GameState) Observe(fn func(Snapshot)) {
	s.observers = append(s.observers, fn)
}

func (s *GameState) enter() bool {
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *GameState) leave() {
	s.busy = false
}

func (s *GameState) notify() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.snapshot()
	for _, fn := range s.observers {
		fn(snap)
	}
}

func (s *GameState) Turn() Color {
	return s.turn
}

func (s *GameState) Outcome() Outcome {
	return s.outcome
}

// Turns counts commits since the last reset.
func (s *GameState) Turns() int {
	return s.turns
}

// Board returns a copy of the grid.
func (s *GameState) Board() Board {
	return s.board
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Board           [8][8]*Piece             `json:"board"`
	Turn            Color                    `json:"turn"`
	Selection       *Selection               `json:"selection"`
	LegalMoves      []Position               `json:"legalMoves"`
	Staged          []Position               `json:"staged"`
	EnPassantTarget *Position                `json:"enPassantTarget"`
	CastlingRights  map[Color]CastlingRights `json:"castlingRights"`
	Outcome         Outcome                  `json:"outcome"`
	LastTurn        *Turn                    `json:"lastTurn"`
	Turns           int                      `json:"turns"`
}

func (s *GameState) Snapshot() Snapshot {
	return s.snapshot()
}

func (s *GameState) snapshot() Snapshot {
	snap := Snapshot{
		Board:          s.board.Pieces(),
		Turn:           s.turn,
		LegalMoves:     append([]Position{}, s.destinations...),
		Staged:         append([]Position{}, s.staged...),
		CastlingRights: make(map[Color]CastlingRights, len(s.castling)),
		Outcome:        s.outcome,
		Turns:          s.turns,
	}
	if s.selection != nil {
		sel := *s.selection
		snap.Selection = &sel
	}
	if s.enPassant != nil {
		ep := *s.enPassant
		snap.EnPassantTarget = &ep
	}
	for color, rights := range s.castling {
		snap.CastlingRights[color] = rights
	}
	if s.outcome.Winner != nil {
		winner := *s.outcome.Winner
		snap.Outcome.Winner = &winner
	}
	if s.lastTurn != nil {
		last := *s.lastTurn
		last.Destinations = append([]Position{}, s.lastTurn.Destinations...)
		snap.LastTurn = &last
	}
	return snap
}

func containsPosition(positions []Position, pos Position) bool {
	return indexOfPosition(positions, pos) >= 0
}

func indexOfPosition(positions []Position, pos Position) int {
	for i, p := range positions {
		if p == pos {
			return i
		}
	}
	return -1
}
