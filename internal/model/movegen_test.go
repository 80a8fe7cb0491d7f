package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func squares(t *testing.T, names ...string) []Position {
	t.Helper()
	out := make([]Position, 0, len(names))
	for _, name := range names {
		out = append(out, square(t, name))
	}
	return out
}

func TestPawnDestinations(t *testing.T) {
	t.Run("start rank", func(t *testing.T) {
		board := NewBoard()
		got := LegalDestinations(&board, NewPiece(White, Pawn), square(t, "e2"), CastlingRights{}, nil)
		assert.ElementsMatch(t, squares(t, "e3", "e4"), got)
	})

	t.Run("blocked", func(t *testing.T) {
		board := NewBoard()
		board.Set(square(t, "e3"), NewPiece(Black, Knight))
		got := LegalDestinations(&board, NewPiece(White, Pawn), square(t, "e2"), CastlingRights{}, nil)
		assert.Empty(t, got)
	})

	t.Run("double step blocked", func(t *testing.T) {
		board := NewBoard()
		board.Set(square(t, "d5"), NewPiece(White, Knight))
		got := LegalDestinations(&board, NewPiece(Black, Pawn), square(t, "d7"), CastlingRights{}, nil)
		assert.ElementsMatch(t, squares(t, "d6"), got)
	})

	t.Run("captures and en passant", func(t *testing.T) {
		var board Board
		board.Set(square(t, "d5"), NewPiece(White, Pawn))
		board.Set(square(t, "e6"), NewPiece(Black, Bishop))
		board.Set(square(t, "c5"), NewPiece(Black, Pawn))
		ep := square(t, "c6")
		got := LegalDestinations(&board, NewPiece(White, Pawn), square(t, "d5"), CastlingRights{}, &ep)
		assert.ElementsMatch(t, squares(t, "d6", "e6", "c6"), got)
	})

	t.Run("no capture of own piece", func(t *testing.T) {
		var board Board
		board.Set(square(t, "d5"), NewPiece(White, Pawn))
		board.Set(square(t, "e6"), NewPiece(White, Bishop))
		got := LegalDestinations(&board, NewPiece(White, Pawn), square(t, "d5"), CastlingRights{}, nil)
		assert.ElementsMatch(t, squares(t, "d6"), got)
	})
}

func TestKnightDestinations(t *testing.T) {
	var board Board
	got := LegalDestinations(&board, NewPiece(White, Knight), square(t, "a1"), CastlingRights{}, nil)
	assert.ElementsMatch(t, squares(t, "b3", "c2"), got)

	start := NewBoard()
	got = LegalDestinations(&start, NewPiece(White, Knight), square(t, "g1"), CastlingRights{}, nil)
	assert.ElementsMatch(t, squares(t, "f3", "h3"), got)
}

func TestSlidingDestinations(t *testing.T) {
	var board Board
	board.Set(square(t, "f6"), NewPiece(White, Pawn))
	board.Set(square(t, "b2"), NewPiece(Black, Pawn))
	got := LegalDestinations(&board, NewPiece(White, Bishop), square(t, "d4"), CastlingRights{}, nil)
	assert.ElementsMatch(t, squares(t, "e3", "f2", "g1", "e5", "c3", "b2", "c5", "b6", "a7"), got)

	start := NewBoard()
	assert.Empty(t, LegalDestinations(&start, NewPiece(White, Rook), square(t, "a1"), CastlingRights{}, nil))
	assert.Empty(t, LegalDestinations(&start, NewPiece(White, Queen), square(t, "d1"), CastlingRights{}, nil))

	var open Board
	rook := LegalDestinations(&open, NewPiece(Black, Rook), square(t, "a8"), CastlingRights{}, nil)
	assert.Len(t, rook, 14)
	queen := LegalDestinations(&open, NewPiece(Black, Queen), square(t, "d4"), CastlingRights{}, nil)
	assert.Len(t, queen, 27)
}

func TestKingDestinations(t *testing.T) {
	all := CastlingRights{KingSide: true, QueenSide: true}

	t.Run("castling both sides", func(t *testing.T) {
		var board Board
		board.Set(square(t, "e1"), NewPiece(White, King))
		board.Set(square(t, "a1"), NewPiece(White, Rook))
		board.Set(square(t, "h1"), NewPiece(White, Rook))
		got := LegalDestinations(&board, NewPiece(White, King), square(t, "e1"), all, nil)
		assert.ElementsMatch(t, squares(t, "d1", "f1", "d2", "e2", "f2", "g1", "c1"), got)
	})

	t.Run("queen side needs three empty squares", func(t *testing.T) {
		var board Board
		board.Set(square(t, "e8"), NewPiece(Black, King))
		board.Set(square(t, "b8"), NewPiece(Black, Knight))
		got := LegalDestinations(&board, NewPiece(Black, King), square(t, "e8"), all, nil)
		assert.Contains(t, got, square(t, "g8"))
		assert.NotContains(t, got, square(t, "c8"))
	})

	t.Run("rights withheld", func(t *testing.T) {
		var board Board
		got := LegalDestinations(&board, NewPiece(White, King), square(t, "e1"), CastlingRights{}, nil)
		assert.NotContains(t, got, square(t, "g1"))
		assert.NotContains(t, got, square(t, "c1"))
	})

	t.Run("rook is not checked", func(t *testing.T) {
		var board Board
		got := LegalDestinations(&board, NewPiece(White, King), square(t, "e1"), all, nil)
		assert.Contains(t, got, square(t, "g1"))
	})

	t.Run("castling near the edge stays on the board", func(t *testing.T) {
		var board Board
		assert.NotPanics(t, func() {
			got := LegalDestinations(&board, NewPiece(White, King), square(t, "h1"), all, nil)
			assert.ElementsMatch(t, squares(t, "g1", "g2", "h2", "f1"), got)
		})
	})
}
