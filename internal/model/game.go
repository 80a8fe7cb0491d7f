package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/splitchess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

type GameOptions struct {
	ClockTime time.Duration
	Logger    zerolog.Logger
	// OnFinish is called once for every round that ends with a winner.
	OnFinish func(GameRecord)
}

// The Game struct hosts one split chess game: two seats, their clocks and
// everyone watching.
type Game struct {
	ID string
	mu sync.Mutex
	// sendMu orders deliveries. It is taken before mu is released, so views
	// go out in the order the inputs were applied.
	sendMu      sync.Mutex
	state       *GameState
	round       int
	startedAt   time.Time
	players     Players
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
	clockTime   time.Duration
	log         zerolog.Logger
	onFinish    func(GameRecord)
	// pending is the snapshot the state observer saw during the current input.
	pending *Snapshot
}

// GameView is what clients receive.
type GameView struct {
	ID      string   `json:"id"`
	Round   int      `json:"round"`
	Players Players  `json:"players"`
	State   Snapshot `json:"state"`
}

func NewGame(id string, opts GameOptions) *Game {
	if opts.ClockTime <= 0 {
		opts.ClockTime = 10 * time.Minute
	}
	g := &Game{
		ID:          id,
		state:       NewGameState(),
		round:       1,
		startedAt:   time.Now(),
		connections: NewGameConnections(),
		whiteClock:  NewClock(opts.ClockTime),
		blackClock:  NewClock(opts.ClockTime),
		clockTime:   opts.ClockTime,
		log:         opts.Logger.With().Str("game_id", id).Logger(),
		onFinish:    opts.OnFinish,
	}
	g.players.White.Color = White
	g.players.Black.Color = Black
	g.refreshClocks()
	g.state.Observe(func(snap Snapshot) {
		g.pending = &snap
	})
	return g
}

func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.players.colorOf(playerID); ok {
		return color, nil
	}
	for _, color := range []Color{White, Black} {
		seat := g.players.seat(color)
		if seat.ID == "" {
			seat.ID = playerID
			g.log.Info().Str("player_id", playerID).Str("color", string(color)).Msg("player seated")
			return color, nil
		}
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.players.colorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

func (g *Game) View() GameView {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.view(g.state.Snapshot())
}

func (g *Game) view(snap Snapshot) GameView {
	g.refreshClocks()
	return GameView{
		ID:      g.ID,
		Round:   g.round,
		Players: g.players,
		State:   snap,
	}
}

// Click forwards a click in canonical coordinates from a seated player whose
// turn it is. Clicks the rules ignore are not errors.
func (g *Game) Click(playerID string, pos Position) error {
	if !boundaryCheck(pos) {
		return errors.Wrapf(ErrInvalidSquare, "%d,%d", pos.X, pos.Y)
	}
	return g.apply(playerID, true, func() bool {
		return g.state.Click(pos)
	})
}

// Confirm commits the staged move of the player to move.
func (g *Game) Confirm(playerID string) error {
	return g.apply(playerID, true, func() bool {
		mover := g.state.Turn()
		if !g.state.Confirm() {
			return false
		}
		g.afterCommit(mover)
		return true
	})
}

// Reset starts a new round. Either seated player may ask for it.
func (g *Game) Reset(playerID string) error {
	return g.apply(playerID, false, func() bool {
		if !g.state.Reset() {
			return false
		}
		g.round++
		g.startedAt = time.Now()
		g.whiteClock.Reset(g.clockTime)
		g.blackClock.Reset(g.clockTime)
		g.log.Info().Int("round", g.round).Msg("game reset")
		return true
	})
}

func (g *Game) apply(playerID string, requireTurn bool, input func() bool) error {
	g.mu.Lock()
	color, ok := g.players.colorOf(playerID)
	if !ok {
		g.mu.Unlock()
		return ErrNotInGame
	}
	if requireTurn && color != g.state.Turn() {
		g.mu.Unlock()
		return ErrNotYourTurn
	}

	g.pending = nil
	var view *GameView
	if input() && g.pending != nil {
		v := g.view(*g.pending)
		view = &v
	}
	g.pending = nil
	if view == nil {
		g.mu.Unlock()
		return nil
	}
	g.sendMu.Lock()
	g.mu.Unlock()
	defer g.sendMu.Unlock()

	// Delivery failures only cost the failing connection.
	_ = g.broadcastState(*view)
	return nil
}

// afterCommit hands the clocks over and reports a finished round.
func (g *Game) afterCommit(mover Color) {
	g.clockFor(mover).Stop()
	outcome := g.state.Outcome()
	if !outcome.Over {
		g.clockFor(mover.Opponent()).Start()
		return
	}

	g.clockFor(mover.Opponent()).Stop()
	record := GameRecord{
		GameID:     g.ID,
		Round:      g.round,
		Winner:     *outcome.Winner,
		Turns:      g.state.Turns(),
		Players:    g.players,
		StartedAt:  g.startedAt,
		FinishedAt: time.Now(),
		Board:      g.pendingBoard(),
	}
	g.log.Info().Int("round", g.round).Str("winner", string(record.Winner)).Int("turns", record.Turns).Msg("game over")
	if g.onFinish != nil {
		g.onFinish(record)
	}
}

func (g *Game) pendingBoard() [8][8]*Piece {
	if g.pending != nil {
		return g.pending.Board
	}
	board := g.state.Board()
	return board.Pieces()
}

func (g *Game) clockFor(color Color) *Clock {
	if color == White {
		return g.whiteClock
	}
	return g.blackClock
}

func (g *Game) refreshClocks() {
	g.players.White.TimeLeft = g.whiteClock.tenths()
	g.players.Black.TimeLeft = g.blackClock.tenths()
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	connID := fmt.Sprintf("%p", conn)

	g.mu.Lock()
	_, isPlayer := g.players.colorOf(playerID)
	isAuthorized := isPlayer || g.canSpectate()
	if !isAuthorized {
		g.mu.Unlock()
		return errors.Wrap(ErrNotInGame, "not authorized to join this game")
	}
	view := g.view(g.state.Snapshot())
	g.sendMu.Lock()
	g.mu.Unlock()
	defer g.sendMu.Unlock()

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the healthy connection and turn the new one away
		g.connections.mu.Unlock()
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		return conn.Close()
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	g.log.Debug().Str("player_id", playerID).Str("conn", connID).Msg("registered connection")

	return g.sendState(playerID, conn, view)
}

// UnregisterConnection forgets playerID's connection if conn is still the
// registered one.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		g.log.Debug().Str("player_id", playerID).Msg("unregistered connection")
	}
}

// ConnectionCount is the number of registered connections.
func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

func encodeState(view GameView) (ws.Message, error) {
	payload, err := json.Marshal(view)
	if err != nil {
		return ws.Message{}, errors.Wrap(err, "marshal game state")
	}
	return ws.Message{Type: ws.MessageTypeGameState, Payload: payload}, nil
}

func (g *Game) sendState(playerID string, conn Conn, view GameView) error {
	msg, err := encodeState(view)
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		g.dropConnection(playerID, conn)
		return errors.Wrapf(err, "send state to %s", playerID)
	}
	return nil
}

// broadcastState sends view to every connection. Connections that fail are
// dropped and their errors returned together.
func (g *Game) broadcastState(view GameView) error {
	msg, err := encodeState(view)
	if err != nil {
		g.log.Error().Err(err).Msg("broadcast")
		return err
	}

	g.connections.mu.RLock()
	activeConnections := make(map[string]Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	var errs error
	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(msg); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "send state to %s", playerID))
			g.dropConnection(playerID, conn)
		}
	}
	if errs != nil {
		g.log.Warn().Err(errs).Msg("broadcast failed for some connections")
	}
	return errs
}

func (g *Game) dropConnection(playerID string, conn Conn) {
	g.UnregisterConnection(playerID, conn)
}
