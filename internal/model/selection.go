package model

// Click handles a click on a canonical board square and reports whether the
// state changed. Clicks that mean nothing in the current state are ignored.
// pos must be on the board.
func (s *GameState) Click(pos Position) bool {
	mustBeOnBoard(pos)
	if !s.enter() {
		return false
	}
	defer s.leave()

	if s.outcome.Over {
		return false
	}

	var changed bool
	switch {
	case s.selection == nil:
		changed = s.selectAt(pos)
	case pos == s.selection.Origin && len(s.staged) == 0:
		s.clearSelection()
		changed = true
	case containsPosition(s.staged, pos):
		s.unstage(pos)
		changed = true
	case containsPosition(s.destinations, pos):
		changed = s.stage(pos)
	}
	if changed {
		s.notify()
	}
	return changed
}

// selectAt picks up the piece on pos if it belongs to the side to move.
func (s *GameState) selectAt(pos Position) bool {
	piece, ok := s.board.Get(pos)
	if !ok || piece.Color != s.turn {
		return false
	}
	s.clearSelection()
	s.selection = &Selection{Piece: piece, Origin: pos}
	s.destinations = LegalDestinations(&s.board, piece, pos, s.castling[piece.Color], s.enPassant)
	return true
}

// stageCap is how many destinations the selected piece may be staged to.
func (s *GameState) stageCap() int {
	if s.selection.Piece.CanSplit() {
		return 2
	}
	return 1
}

func (s *GameState) stage(pos Position) bool {
	if len(s.staged) >= s.stageCap() {
		return false
	}
	if sq := s.board.square(pos); sq.Occupied {
		s.displaced[pos] = sq
	}
	s.staged = append(s.staged, pos)

	piece := s.selection.Piece
	if len(s.staged) == 1 {
		s.board.Set(pos, piece)
		return true
	}
	half := piece.Split()
	for _, dest := range s.staged {
		s.board.Set(dest, half)
	}
	return true
}

// unstage takes pos back out of the staged set, restoring whatever stood there
// before. A lone remaining destination goes back to the whole piece.
func (s *GameState) unstage(pos Position) {
	i := indexOfPosition(s.staged, pos)
	s.staged = append(s.staged[:i], s.staged[i+1:]...)

	if prior, ok := s.displaced[pos]; ok {
		s.board.put(pos, prior)
		delete(s.displaced, pos)
	} else {
		s.board.Clear(pos)
	}

	if len(s.staged) == 1 {
		s.board.Set(s.staged[0], s.selection.Piece)
	}
}
