package model

import (
	"fmt"

	"github.com/pkg/errors"
)

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the row delta of a pawn advance for this color.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) pawnStartRow() int {
	if c == White {
		return 6
	}
	return 1
}

// promotionRow is the opposing back rank.
func (c Color) promotionRow() int {
	if c == White {
		return 0
	}
	return 7
}

// Fraction is how much of a piece occupies a square.
type Fraction string

const (
	Full    Fraction = "full"
	Half    Fraction = "half"
	Quarter Fraction = "quarter"
	Eighth  Fraction = "eighth"
)

// Smaller returns the fraction produced by a split. Eighth has no smaller
// fraction and reports false.
func (f Fraction) Smaller() (Fraction, bool) {
	switch f {
	case Full:
		return Half, true
	case Half:
		return Quarter, true
	case Quarter:
		return Eighth, true
	}
	return f, false
}

// Piece identifies what stands on a square. Pieces are values and are never
// mutated in place.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Fraction Fraction  `json:"fraction"`
}

// NewPiece returns a full-fraction piece.
func NewPiece(color Color, pieceType PieceType) Piece {
	return Piece{Type: pieceType, Color: color, Fraction: Full}
}

// CanSplit reports whether the piece may be staged to two destinations.
func (p Piece) CanSplit() bool {
	return p.Type != King && p.Fraction != Eighth
}

// Split returns the identity each half of a split carries.
func (p Piece) Split() Piece {
	smaller, ok := p.Fraction.Smaller()
	if !ok || p.Type == King {
		return p
	}
	p.Fraction = smaller
	return p
}

func (p Piece) String() string {
	if p.Fraction == Full {
		return fmt.Sprintf("%s %s", p.Color, p.Type)
	}
	return fmt.Sprintf("%s %s (%s)", p.Color, p.Type, p.Fraction)
}

// Position is a canonical board coordinate: X is the column (file a = 0),
// Y is the row with Black's back rank at 0.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string {
	if !boundaryCheck(p) {
		return fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return fmt.Sprintf("%c%d", p.X+'a', 8-p.Y)
}

// ParseSquare reads algebraic square names such as "e4".
func ParseSquare(s string) (Position, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, errors.Wrapf(ErrInvalidSquare, "%q", s)
	}
	return Position{X: int(s[0] - 'a'), Y: 8 - int(s[1]-'0')}, nil
}

// Square is a single cell of the grid. The zero value is an empty square.
type Square struct {
	Piece    Piece
	Occupied bool
}

// Board is the fixed 8x8 grid, indexed [row][column].
type Board [8][8]Square

func boundaryCheck(position Position) bool {
	return position.X >= 0 && position.X < 8 && position.Y >= 0 && position.Y < 8
}

func mustBeOnBoard(position Position) {
	if !boundaryCheck(position) {
		panic(fmt.Sprintf("model: position %d,%d is off the board", position.X, position.Y))
	}
}

// Get returns the piece at pos, if any.
func (b *Board) Get(pos Position) (Piece, bool) {
	mustBeOnBoard(pos)
	sq := b[pos.Y][pos.X]
	return sq.Piece, sq.Occupied
}

func (b *Board) Set(pos Position, piece Piece) {
	mustBeOnBoard(pos)
	b[pos.Y][pos.X] = Square{Piece: piece, Occupied: true}
}

func (b *Board) Clear(pos Position) {
	mustBeOnBoard(pos)
	b[pos.Y][pos.X] = Square{}
}

func (b *Board) square(pos Position) Square {
	mustBeOnBoard(pos)
	return b[pos.Y][pos.X]
}

func (b *Board) put(pos Position, sq Square) {
	mustBeOnBoard(pos)
	b[pos.Y][pos.X] = sq
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting layout with every piece full.
func NewBoard() Board {
	var board Board
	for x, pieceType := range backRank {
		board.Set(Position{X: x, Y: 0}, NewPiece(Black, pieceType))
		board.Set(Position{X: x, Y: 1}, NewPiece(Black, Pawn))
		board.Set(Position{X: x, Y: 6}, NewPiece(White, Pawn))
		board.Set(Position{X: x, Y: 7}, NewPiece(White, pieceType))
	}
	return board
}

// hasKing reports whether any king of color is on the board.
func (b *Board) hasKing(color Color) bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sq := b[y][x]
			if sq.Occupied && sq.Piece.Type == King && sq.Piece.Color == color {
				return true
			}
		}
	}
	return false
}

// Pieces returns a copy of the grid as nullable pieces, for serialization.
func (b *Board) Pieces() [8][8]*Piece {
	var out [8][8]*Piece
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if b[y][x].Occupied {
				piece := b[y][x].Piece
				out[y][x] = &piece
			}
		}
	}
	return out
}
