package model

// evaluateOutcome ends the game once a side has no king left on the board.
func (s *GameState) evaluateOutcome() {
	if s.outcome.Over {
		return
	}
	whiteKing := s.board.hasKing(White)
	blackKing := s.board.hasKing(Black)
	switch {
	case !whiteKing:
		winner := Black
		s.outcome = Outcome{Over: true, Winner: &winner}
	case !blackKing:
		winner := White
		s.outcome = Outcome{Over: true, Winner: &winner}
	}
}
