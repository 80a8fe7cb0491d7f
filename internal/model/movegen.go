package model

var (
	rookDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	queenDirs  = append(append([]Position{}, bishopDirs...), rookDirs...)
	knightDirs = []Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = queenDirs
)

// LegalDestinations returns every square the piece standing on origin may be
// staged to. It ignores whose turn it is and never looks for check: the
// variant is won by removing the king, not by mating it.
func LegalDestinations(board *Board, piece Piece, origin Position, castling CastlingRights, enPassant *Position) []Position {
	switch piece.Type {
	case Pawn:
		return pawnDestinations(board, piece, origin, enPassant)
	case Knight:
		return stepDestinations(board, piece, origin, knightDirs)
	case Bishop:
		return slideDestinations(board, piece, origin, bishopDirs)
	case Rook:
		return slideDestinations(board, piece, origin, rookDirs)
	case Queen:
		return slideDestinations(board, piece, origin, queenDirs)
	case King:
		moves := stepDestinations(board, piece, origin, kingDirs)
		return append(moves, castleDestinations(board, origin, castling)...)
	default:
		return []Position{}
	}
}

func (b *Board) isEmpty(pos Position) bool {
	return !b.square(pos).Occupied
}

// isEnemy reports whether pos holds a piece of the other color.
func (b *Board) isEnemy(pos Position, color Color) bool {
	sq := b.square(pos)
	return sq.Occupied && sq.Piece.Color != color
}

func pawnDestinations(board *Board, piece Piece, origin Position, enPassant *Position) []Position {
	pawnMoves := []Position{}
	dir := piece.Color.forward()

	// Check move forward 1, then 2 from the starting row
	one := Position{X: origin.X, Y: origin.Y + dir}
	if boundaryCheck(one) && board.isEmpty(one) {
		pawnMoves = append(pawnMoves, one)
		two := Position{X: origin.X, Y: origin.Y + 2*dir}
		if origin.Y == piece.Color.pawnStartRow() && boundaryCheck(two) && board.isEmpty(two) {
			pawnMoves = append(pawnMoves, two)
		}
	}
	// Captures, including onto the en passant target
	for _, dx := range []int{-1, 1} {
		target := Position{X: origin.X + dx, Y: origin.Y + dir}
		if !boundaryCheck(target) {
			continue
		}
		if board.isEnemy(target, piece.Color) {
			pawnMoves = append(pawnMoves, target)
		} else if enPassant != nil && *enPassant == target {
			pawnMoves = append(pawnMoves, target)
		}
	}
	return pawnMoves
}

func stepDestinations(board *Board, piece Piece, origin Position, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := Position{X: origin.X + dir.X, Y: origin.Y + dir.Y}
		if boundaryCheck(target) && (board.isEmpty(target) || board.isEnemy(target, piece.Color)) {
			moves = append(moves, target)
		}
	}
	return moves
}

func slideDestinations(board *Board, piece Piece, origin Position, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := Position{X: origin.X + dir.X, Y: origin.Y + dir.Y}
		for boundaryCheck(target) {
			if board.isEmpty(target) {
				moves = append(moves, target)
			} else if board.isEnemy(target, piece.Color) {
				moves = append(moves, target)
				break
			} else {
				break
			}
			target = Position{X: target.X + dir.X, Y: target.Y + dir.Y}
		}
	}
	return moves
}

// castleDestinations only looks at the squares between king and rook and at
// the rights; neither the rook nor attacked squares are checked.
func castleDestinations(board *Board, origin Position, castling CastlingRights) []Position {
	moves := []Position{}
	emptyRun := func(dxs ...int) bool {
		for _, dx := range dxs {
			pos := Position{X: origin.X + dx, Y: origin.Y}
			if !boundaryCheck(pos) || !board.isEmpty(pos) {
				return false
			}
		}
		return true
	}
	if castling.KingSide && emptyRun(1, 2) {
		moves = append(moves, Position{X: origin.X + 2, Y: origin.Y})
	}
	if castling.QueenSide && emptyRun(-1, -2, -3) {
		moves = append(moves, Position{X: origin.X - 2, Y: origin.Y})
	}
	return moves
}
