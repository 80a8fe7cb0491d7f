package view

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"github.com/benbeisheim/splitchess-backend/internal/model"
	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

const (
	MinSize = 64
	MaxSize = 2048
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	StagedColor    color.RGBA
	LastMoveColor  color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() Theme {
	return Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255},
		DarkSquare:     color.RGBA{181, 136, 99, 255},
		SelectedSquare: color.RGBA{255, 255, 0, 255},
		LegalMoveColor: color.RGBA{100, 200, 100, 160},
		StagedColor:    color.RGBA{80, 140, 220, 160},
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
	}
}

// Renderer paints snapshots. Piece rasters are cached per renderer.
type Renderer struct {
	pieces     PieceSet
	theme      Theme
	squareSize int

	mu    sync.Mutex
	cache map[model.Piece]*image.RGBA
}

// NewRenderer creates a renderer that rasterizes squares at squareSize pixels
// before scaling to the requested output size.
func NewRenderer(pieces PieceSet, squareSize int) *Renderer {
	if pieces == nil {
		pieces = DefaultPieceSet{}
	}
	if squareSize <= 0 {
		squareSize = 96
	}
	return &Renderer{
		pieces:     pieces,
		theme:      DefaultTheme(),
		squareSize: squareSize,
		cache:      make(map[model.Piece]*image.RGBA),
	}
}

// Render draws snap as a size×size image, seen from Black's side when flipped.
func (r *Renderer) Render(snap model.Snapshot, flipped bool, size int) (image.Image, error) {
	if size < MinSize || size > MaxSize {
		return nil, errors.Errorf("size %d outside %d..%d", size, MinSize, MaxSize)
	}
	sq := r.squareSize
	board := image.NewRGBA(image.Rect(0, 0, 8*sq, 8*sq))

	highlights := make(map[model.Position]color.RGBA)
	if snap.LastTurn != nil {
		highlights[snap.LastTurn.Origin] = r.theme.LastMoveColor
		for _, pos := range snap.LastTurn.Destinations {
			highlights[pos] = r.theme.LastMoveColor
		}
	}
	for _, pos := range snap.LegalMoves {
		highlights[pos] = r.theme.LegalMoveColor
	}
	for _, pos := range snap.Staged {
		highlights[pos] = r.theme.StagedColor
	}

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pos := model.Position{X: x, Y: y}
			rect := r.squareRect(pos, flipped)

			base := r.theme.LightSquare
			if (x+y)%2 == 1 {
				base = r.theme.DarkSquare
			}
			draw.Draw(board, rect, image.NewUniform(base), image.Point{}, draw.Src)
			if hl, ok := highlights[pos]; ok {
				draw.Draw(board, rect, image.NewUniform(hl), image.Point{}, draw.Over)
			}

			piece := snap.Board[y][x]
			if piece == nil {
				continue
			}
			sprite, err := r.sprite(*piece)
			if err != nil {
				return nil, err
			}
			draw.Draw(board, rect, sprite, image.Point{}, draw.Over)
		}
	}

	if snap.Selection != nil {
		r.outline(board, r.squareRect(snap.Selection.Origin, flipped), r.theme.SelectedSquare)
	}

	if size == board.Bounds().Dx() {
		return board, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(out, out.Bounds(), board, board.Bounds(), draw.Src, nil)
	return out, nil
}

func (r *Renderer) squareRect(pos model.Position, flipped bool) image.Rectangle {
	screen := Transform(pos, flipped)
	sq := r.squareSize
	return image.Rect(screen.X*sq, screen.Y*sq, (screen.X+1)*sq, (screen.Y+1)*sq)
}

func (r *Renderer) outline(dst draw.Image, rect image.Rectangle, c color.RGBA) {
	w := r.squareSize / 16
	if w < 1 {
		w = 1
	}
	src := image.NewUniform(c)
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+w), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Max.Y-w, rect.Max.X, rect.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+w, rect.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Max.X-w, rect.Min.Y, rect.Max.X, rect.Max.Y), src, image.Point{}, draw.Src)
}

// sprite rasterizes a piece's SVG at square size, once per piece identity.
func (r *Renderer) sprite(piece model.Piece) (*image.RGBA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if img, ok := r.cache[piece]; ok {
		return img, nil
	}

	data, err := r.pieces.SVG(piece)
	if err != nil {
		return nil, errors.Wrapf(err, "artwork for %s", piece)
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "parse artwork for %s", piece)
	}

	size := r.squareSize
	icon.SetTarget(0, 0, float64(size), float64(size))
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	r.cache[piece] = rgba
	return rgba, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "encode png")
}
