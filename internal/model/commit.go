package model

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Confirm commits the staged move, ends the turn and reports whether anything
// was committed. Without a staged destination it does nothing.
func (s *GameState) Confirm() bool {
	if !s.enter() {
		return false
	}
	defer s.leave()

	if s.outcome.Over || s.selection == nil || len(s.staged) == 0 {
		return false
	}

	piece := s.selection.Piece
	origin := s.selection.Origin

	s.handleEnPassant(piece)
	if piece.Type == King {
		s.handleCastle(origin)
	}
	s.placeStaged(piece)
	s.board.Clear(origin)
	s.updateCastlingRights(piece, origin)
	s.handlePromotion(piece.Color)
	s.updateEnPassantTarget(piece, origin)

	s.lastTurn = &Turn{
		Color:        piece.Color,
		Piece:        piece,
		Origin:       origin,
		Destinations: append([]Position{}, s.staged...),
	}
	s.turns++
	s.clearSelection()

	s.evaluateOutcome()
	s.switchTurn()
	s.notify()
	return true
}

// handleEnPassant clears the square behind the en passant target when any
// staged destination lands on it, whatever the moving piece. This is in
// addition to any ordinary capture; placement runs afterwards, so a split
// half staged onto that square is put back.
func (s *GameState) handleEnPassant(piece Piece) {
	if s.enPassant == nil {
		return
	}
	for _, dest := range s.staged {
		if dest != *s.enPassant {
			continue
		}
		s.board.Clear(Position{X: dest.X, Y: dest.Y - piece.Color.forward()})
	}
}

// handleCastle moves whatever stands in the corner next to the king's new
// square and drops both rights.
func (s *GameState) handleCastle(origin Position) {
	for _, dest := range s.staged {
		if abs(dest.X-origin.X) != 2 {
			continue
		}
		corner := Position{X: 7, Y: dest.Y}
		beside := Position{X: dest.X - 1, Y: dest.Y}
		if dest.X < origin.X {
			corner = Position{X: 0, Y: dest.Y}
			beside = Position{X: dest.X + 1, Y: dest.Y}
		}
		s.board.put(beside, s.board.square(corner))
		s.board.Clear(corner)
		s.castling[s.turn] = CastlingRights{}
	}
}

// placeStaged makes sure every destination holds the piece it was staged as.
// The ghosts written while staging normally already do.
func (s *GameState) placeStaged(piece Piece) {
	want := piece
	if len(s.staged) == 2 {
		want = piece.Split()
	}
	for _, dest := range s.staged {
		if got, ok := s.board.Get(dest); !ok || got != want {
			s.board.Set(dest, want)
		}
	}
}

func (s *GameState) updateCastlingRights(piece Piece, origin Position) {
	rights := s.castling[piece.Color]
	switch piece.Type {
	case King:
		rights = CastlingRights{}
	case Rook:
		switch origin.X {
		case 7:
			rights.KingSide = false
		case 0:
			rights.QueenSide = false
		}
	}
	s.castling[piece.Color] = rights
}

// handlePromotion turns pawns on the far rank into queens of the same fraction.
func (s *GameState) handlePromotion(color Color) {
	for _, dest := range s.staged {
		piece, ok := s.board.Get(dest)
		if !ok || piece.Type != Pawn || piece.Color != color || dest.Y != color.promotionRow() {
			continue
		}
		piece.Type = Queen
		s.board.Set(dest, piece)
	}
}

// updateEnPassantTarget records the skipped square after a lone double advance.
func (s *GameState) updateEnPassantTarget(piece Piece, origin Position) {
	s.enPassant = nil
	if piece.Type != Pawn || len(s.staged) != 1 {
		return
	}
	dest := s.staged[0]
	if abs(dest.Y-origin.Y) == 2 {
		s.enPassant = &Position{X: origin.X, Y: (origin.Y + dest.Y) / 2}
	}
}

func (s *GameState) switchTurn() {
	s.turn = s.turn.Opponent()
}
