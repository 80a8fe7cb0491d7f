package controller

import (
	"github.com/benbeisheim/splitchess-backend/internal/middleware"
	"github.com/benbeisheim/splitchess-backend/internal/model"
	"github.com/benbeisheim/splitchess-backend/internal/service"
	"github.com/benbeisheim/splitchess-backend/internal/view"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const defaultBoardSize = 480

type GameController struct {
	gameService *service.GameService
	log         zerolog.Logger
}

func NewGameController(gameService *service.GameService, log zerolog.Logger) *GameController {
	return &GameController{gameService: gameService, log: log}
}

// errorStatus maps service and rule errors to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotInGame), errors.Is(err, model.ErrNotYourTurn):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull), errors.Is(err, model.ErrAlreadyQueued), errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrInvalidSquare):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (gc *GameController) fail(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		gc.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		msg = "internal error"
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := middleware.PlayerID(c)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameView, err := gc.gameService.GetGameView(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(gameView)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

// Click takes a square in the client's orientation and answers with the
// resulting game view.
func (gc *GameController) Click(c *fiber.Ctx) error {
	var click model.SquareClick
	if err := c.BodyParser(&click); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid click payload",
		})
	}
	gameID := c.Params("gameId")
	pos := view.Transform(model.Position{X: click.X, Y: click.Y}, click.Flipped)
	if err := gc.gameService.HandleClick(gameID, middleware.PlayerID(c), pos); err != nil {
		return gc.fail(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Confirm(c *fiber.Ctx) error {
	if err := gc.gameService.HandleConfirm(c.Params("gameId"), middleware.PlayerID(c)); err != nil {
		return gc.fail(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	if err := gc.gameService.HandleReset(c.Params("gameId"), middleware.PlayerID(c)); err != nil {
		return gc.fail(c, err)
	}
	return gc.GetGameState(c)
}

// BoardImage renders the board as PNG. Query: flipped, size.
func (gc *GameController) BoardImage(c *fiber.Ctx) error {
	size := c.QueryInt("size", defaultBoardSize)
	if size < view.MinSize || size > view.MaxSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "size out of range",
		})
	}
	data, err := gc.gameService.RenderBoard(c.Params("gameId"), c.QueryBool("flipped", false), size)
	if err != nil {
		return gc.fail(c, err)
	}
	c.Type("png")
	return c.Send(data)
}

func (gc *GameController) Results(c *fiber.Ctx) error {
	records, err := gc.gameService.Results(c.Params("gameId"))
	if err != nil {
		return gc.fail(c, err)
	}
	return c.JSON(records)
}
