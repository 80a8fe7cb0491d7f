package model

import "github.com/pkg/errors"

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrInvalidSquare = errors.New("invalid square")
	ErrQueueTooSmall = errors.New("not enough players queued")
	ErrAlreadyQueued = errors.New("player already in queue")
)
