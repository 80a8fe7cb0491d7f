package controller

import (
	"github.com/benbeisheim/splitchess-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Routes mounts the REST API under /api and the websocket endpoints under /ws.
func Routes(app *fiber.App, gc *GameController, wsc *WebSocketController, origins []string) {
	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	wsRoutes.Get("/game/:gameId", websocket.New(wsc.HandleConnection, wsConfig))
	wsRoutes.Get("/matchmaking", websocket.New(wsc.HandleMatchmaking, wsConfig))

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gc.JoinMatchmaking)
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/join/:gameId", gc.JoinGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Post("/:gameId/click", gc.Click)
	gameRoutes.Post("/:gameId/confirm", gc.Confirm)
	gameRoutes.Post("/:gameId/reset", gc.Reset)
	gameRoutes.Get("/:gameId/board.png", gc.BoardImage)
	gameRoutes.Get("/:gameId/results", gc.Results)
}
