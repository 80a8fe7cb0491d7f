package controller

import (
	"encoding/json"
	"sync"

	"github.com/benbeisheim/splitchess-backend/internal/middleware"
	"github.com/benbeisheim/splitchess-backend/internal/model"
	"github.com/benbeisheim/splitchess-backend/internal/service"
	"github.com/benbeisheim/splitchess-backend/internal/view"
	"github.com/benbeisheim/splitchess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type WebSocketController struct {
	gameService *service.GameService
	log         zerolog.Logger
}

func NewWebSocketController(gameService *service.GameService, log zerolog.Logger) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		log:         log,
	}
}

// syncConn serializes writes; broadcasts from other players' inputs and
// replies from the read loop share one connection.
type syncConn struct {
	mu   sync.Mutex
	conn model.Conn
}

func (s *syncConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *syncConn) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(messageType, data)
}

func (s *syncConn) Close() error {
	return s.conn.Close()
}

func playerIDOf(c *websocket.Conn) string {
	id, _ := c.Locals(middleware.PlayerIDKey).(string)
	return id
}

// HandleConnection serves one client of a game until it disconnects.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := playerIDOf(c)
	log := wsc.log.With().Str("game_id", gameID).Str("player_id", playerID).Logger()
	conn := &syncConn{conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warn().Err(err).Msg("failed to register connection")
		wsc.sendError(conn, err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("connection closed")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debug().Err(err).Msg("parse error")
			wsc.sendError(conn, errors.Wrap(err, "malformed message"))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debug().Err(err).Str("type", string(msg.Type)).Msg("handle error")
			wsc.sendError(conn, err)
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeClick:
		var click model.SquareClick
		if err := json.Unmarshal(msg.Payload, &click); err != nil {
			return errors.Wrap(err, "malformed click")
		}
		pos := view.Transform(model.Position{X: click.X, Y: click.Y}, click.Flipped)
		return wsc.gameService.HandleClick(gameID, playerID, pos)
	case ws.MessageTypeConfirm:
		return wsc.gameService.HandleConfirm(gameID, playerID)
	case ws.MessageTypeReset:
		return wsc.gameService.HandleReset(gameID, playerID)
	default:
		return errors.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(conn model.Conn, err error) {
	msg, encErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if encErr != nil {
		return
	}
	if werr := conn.WriteJSON(msg); werr != nil {
		wsc.log.Debug().Err(werr).Msg("send error message")
	}
}

// HandleMatchmaking queues the player and waits until a match is found or
// the client goes away.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID := playerIDOf(c)
	log := wsc.log.With().Str("player_id", playerID).Logger()

	ch := make(chan model.MatchFoundEvent, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueued) {
		wsc.sendError(c, err)
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			return
		}
		msg, err := ws.NewMessage(ws.MessageTypeMatchFound, event)
		if err != nil {
			log.Error().Err(err).Msg("encode match")
			return
		}
		if err := c.WriteJSON(msg); err != nil {
			log.Warn().Err(err).Msg("send match")
		}
	case <-closed:
		wsc.gameService.LeaveMatchmaking(playerID)
		log.Debug().Msg("left matchmaking")
	}
}
