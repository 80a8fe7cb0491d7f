// Package view maps between canonical board coordinates and what a player
// sees, and paints board snapshots.
package view

import "github.com/benbeisheim/splitchess-backend/internal/model"

// Transform converts between canonical and on-screen squares. Canonical
// coordinates put White at the bottom; flipped puts Black there. It is its own
// inverse, so input mapping and drawing share it.
func Transform(pos model.Position, flipped bool) model.Position {
	if !flipped {
		return pos
	}
	return model.Position{X: 7 - pos.X, Y: 7 - pos.Y}
}
