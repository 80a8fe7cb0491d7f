package service

import (
	"bytes"

	"github.com/benbeisheim/splitchess-backend/internal/model"
	"github.com/benbeisheim/splitchess-backend/internal/view"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type GameService struct {
	gameManager *GameManager
	renderer    *view.Renderer
}

func NewGameService(gameManager *GameManager, renderer *view.Renderer) *GameService {
	return &GameService{
		gameManager: gameManager,
		renderer:    renderer,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", errors.Wrap(err, "failed to create game")
	}
	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameView(gameID string) (model.GameView, error) {
	return gs.gameManager.GetGameView(gameID)
}

// HandleClick applies a click given in canonical coordinates.
func (gs *GameService) HandleClick(gameID string, playerID string, pos model.Position) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Click(playerID, pos)
}

func (gs *GameService) HandleConfirm(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Confirm(playerID)
}

func (gs *GameService) HandleReset(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Reset(playerID)
}

// RenderBoard paints the current state of a game as PNG.
func (gs *GameService) RenderBoard(gameID string, flipped bool, size int) ([]byte, error) {
	v, err := gs.gameManager.GetGameView(gameID)
	if err != nil {
		return nil, err
	}
	img, err := gs.renderer.Render(v.State, flipped, size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := view.EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gs *GameService) Results(gameID string) ([]model.GameRecord, error) {
	return gs.gameManager.Results(gameID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
