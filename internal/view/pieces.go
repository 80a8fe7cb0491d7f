package view

import (
	"fmt"
	"strings"

	"github.com/benbeisheim/splitchess-backend/internal/model"
	"github.com/pkg/errors"
)

// PieceSet looks up the artwork for a piece as SVG markup.
type PieceSet interface {
	SVG(piece model.Piece) ([]byte, error)
}

// DefaultPieceSet draws one silhouette per piece type. Smaller fractions are
// drawn smaller and carry one pip per split.
type DefaultPieceSet struct{}

var silhouettes = map[model.PieceType][]string{
	model.Pawn: {
		`<circle cx="50" cy="32" r="12"/>`,
		`<path d="M35 80 Q50 40 65 80 Z"/>`,
		`<rect x="25" y="78" width="50" height="10"/>`,
	},
	model.Knight: {
		`<path d="M30 85 L72 85 L68 60 Q70 35 52 18 L48 26 Q34 30 26 48 L32 54 L44 46 Q46 56 34 68 Z"/>`,
	},
	model.Bishop: {
		`<circle cx="50" cy="18" r="6"/>`,
		`<path d="M30 85 L70 85 L64 74 Q74 52 50 24 Q26 52 36 74 Z"/>`,
	},
	model.Rook: {
		`<path d="M28 85 L72 85 L68 72 L66 40 L72 40 L72 22 L63 22 L63 30 L55 30 L55 22 L45 22 L45 30 L37 30 L37 22 L28 22 L28 40 L34 40 L32 72 Z"/>`,
	},
	model.Queen: {
		`<path d="M24 85 L76 85 L72 72 L82 32 L64 56 L62 24 L50 52 L38 24 L36 56 L18 32 L28 72 Z"/>`,
	},
	model.King: {
		`<path d="M28 85 L72 85 L68 70 Q80 48 60 42 L54 42 L54 30 L62 30 L62 24 L54 24 L54 14 L46 14 L46 24 L38 24 L38 30 L46 30 L46 42 L40 42 Q20 48 32 70 Z"/>`,
	},
}

var fractionScale = map[model.Fraction]float64{
	model.Full:    1.0,
	model.Half:    0.8,
	model.Quarter: 0.65,
	model.Eighth:  0.5,
}

var fractionPips = map[model.Fraction]int{
	model.Full:    0,
	model.Half:    1,
	model.Quarter: 2,
	model.Eighth:  3,
}

func (DefaultPieceSet) SVG(piece model.Piece) ([]byte, error) {
	shapes, ok := silhouettes[piece.Type]
	if !ok {
		return nil, errors.Errorf("no artwork for piece type %q", piece.Type)
	}
	scale, ok := fractionScale[piece.Fraction]
	if !ok {
		return nil, errors.Errorf("no artwork for fraction %q", piece.Fraction)
	}

	fill, stroke := "#f8f8f8", "#202020"
	if piece.Color == model.Black {
		fill, stroke = "#303030", "#e8e8e8"
	}
	// keep the silhouette standing on the same baseline
	offsetX := 50 * (1 - scale)
	offsetY := 88 * (1 - scale)

	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" width="100" height="100">`)
	fmt.Fprintf(&b, `<g transform="translate(%.2f %.2f) scale(%.2f)" fill="%s" stroke="%s" stroke-width="3">`, offsetX, offsetY, scale, fill, stroke)
	for _, shape := range shapes {
		b.WriteString(shape)
	}
	b.WriteString(`</g>`)
	for i := 0; i < fractionPips[piece.Fraction]; i++ {
		fmt.Fprintf(&b, `<circle cx="%d" cy="10" r="5" fill="#c03030" stroke="%s" stroke-width="1"/>`, 88-i*12, stroke)
	}
	b.WriteString(`</svg>`)
	return []byte(b.String()), nil
}
