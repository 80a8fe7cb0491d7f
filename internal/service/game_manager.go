// service/game_manager.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/benbeisheim/splitchess-backend/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// Archive keeps finished rounds.
type Archive interface {
	Save(record model.GameRecord) error
	List(gameID string) ([]model.GameRecord, error)
}

type ManagerOptions struct {
	Archive   Archive
	ClockTime time.Duration
	Logger    zerolog.Logger
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan model.MatchFoundEvent
	archive          Archive
	clockTime        time.Duration
	log              zerolog.Logger
	mu               sync.RWMutex
}

func NewGameManager(opts ManagerOptions) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
		archive:          opts.Archive,
		clockTime:        opts.ClockTime,
		log:              opts.Logger,
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for gm.matchPlayers() {
			}
		}
	}
}

// matchPlayers starts one game for the two longest waiting players and
// reports whether it did.
func (gm *GameManager) matchPlayers() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, err := gm.queue.GetNextPair()
	if err != nil {
		return false
	}

	gameID := uuid.New().String()
	game := gm.newGame(gameID)
	// A fresh game seats the first player White and the second Black; the
	// queue never pairs a player with itself.
	_, _ = game.AddPlayer(player1.ID)
	_, _ = game.AddPlayer(player2.ID)
	gm.games[gameID] = game

	sent1 := gm.notifyMatch(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: model.White})
	sent2 := gm.notifyMatch(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: model.Black})
	if !sent1 || !sent2 {
		// The game exists either way; a player can still join it by id.
		gm.log.Warn().Str("game_id", gameID).Bool("white_notified", sent1).Bool("black_notified", sent2).Msg("failed to notify all players of match")
	}
	gm.log.Info().Str("game_id", gameID).Str("white", player1.ID).Str("black", player2.ID).Msg("match found")
	return true
}

// notifyMatch delivers event and retires the player's channel. Callers hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	delete(gm.matchingChannels, playerID)
	defer close(ch)

	select {
	case ch <- event:
		return true
	default:
		return false
	}
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel retires ch if it is still registered. A channel
// is closed by whoever removes it from the map, so it is closed exactly once.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		close(ch)
	}
}

func (gm *GameManager) newGame(gameID string) *model.Game {
	return model.NewGame(gameID, model.GameOptions{
		ClockTime: gm.clockTime,
		Logger:    gm.log,
		OnFinish:  gm.archiveRecord,
	})
}

func (gm *GameManager) archiveRecord(record model.GameRecord) {
	if gm.archive == nil {
		return
	}
	if err := gm.archive.Save(record); err != nil {
		gm.log.Error().Err(err).Str("game_id", record.GameID).Int("round", record.Round).Msg("archive round")
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	gm.games[gameID] = gm.newGame(gameID)
	gm.log.Info().Str("game_id", gameID).Msg("game created")
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

// LeaveMatchmaking takes a player out of the queue.
func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

func (gm *GameManager) GetGameView(gameID string) (model.GameView, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameView{}, err
	}
	return game.View(), nil
}

// Results lists the finished rounds of a game.
func (gm *GameManager) Results(gameID string) ([]model.GameRecord, error) {
	if _, err := gm.GetGame(gameID); err != nil {
		return nil, err
	}
	if gm.archive == nil {
		return []model.GameRecord{}, nil
	}
	return gm.archive.List(gameID)
}
