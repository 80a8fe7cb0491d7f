package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/splitchess-backend/internal/model"
	"github.com/benbeisheim/splitchess-backend/internal/service"
	"github.com/benbeisheim/splitchess-backend/internal/view"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordArchive struct {
	records []model.GameRecord
}

func (a *recordArchive) Save(record model.GameRecord) error {
	a.records = append(a.records, record)
	return nil
}

func (a *recordArchive) List(gameID string) ([]model.GameRecord, error) {
	out := []model.GameRecord{}
	for _, r := range a.records {
		if r.GameID == gameID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log := zerolog.Nop()
	manager := service.NewGameManager(service.ManagerOptions{
		Archive:   &recordArchive{},
		ClockTime: time.Minute,
		Logger:    log,
	})
	gs := service.NewGameService(manager, view.NewRenderer(view.DefaultPieceSet{}, 16))

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	Routes(app, NewGameController(gs, log), NewWebSocketController(gs, log), nil)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, playerID, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// startGame creates a game seated with alice as White and bob as Black.
func startGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := do(t, app, http.MethodPost, "/api/game/create", "alice", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var created struct {
		GameID string `json:"game_id"`
	}
	decode(t, resp, &created)
	require.NotEmpty(t, created.GameID)

	seats := []struct {
		player string
		want   model.Color
	}{
		{"alice", model.White},
		{"bob", model.Black},
	}
	for _, seat := range seats {
		resp := do(t, app, http.MethodPost, "/api/game/join/"+created.GameID, seat.player, "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var joined struct {
			Color model.Color `json:"color"`
		}
		decode(t, resp, &joined)
		require.Equal(t, seat.want, joined.Color)
	}
	return created.GameID
}

func click(t *testing.T, app *fiber.App, gameID, playerID, name string, flipped bool) *http.Response {
	t.Helper()
	pos, err := model.ParseSquare(name)
	require.NoError(t, err)
	pos = view.Transform(pos, flipped)
	body, err := json.Marshal(model.SquareClick{X: pos.X, Y: pos.Y, Flipped: flipped})
	require.NoError(t, err)
	return do(t, app, http.MethodPost, "/api/game/"+gameID+"/click", playerID, string(body))
}

func TestPlayerIDRequired(t *testing.T) {
	app := newTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/game/create", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/game/create?playerId=alice", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWebSocketRoutesRequireUpgrade(t *testing.T) {
	app := newTestApp(t)
	resp := do(t, app, http.MethodGet, "/ws/matchmaking", "alice", "")
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestJoinErrors(t *testing.T) {
	app := newTestApp(t)
	gameID := startGame(t, app)

	resp := do(t, app, http.MethodPost, "/api/game/join/"+gameID, "carol", "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/game/join/missing", "carol", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/game/missing", "carol", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestClickFlow(t *testing.T) {
	app := newTestApp(t)
	gameID := startGame(t, app)

	resp := click(t, app, gameID, "bob", "e7", true)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "not bob's turn")

	resp = click(t, app, gameID, "carol", "e2", false)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "not seated")

	resp = do(t, app, http.MethodPost, "/api/game/"+gameID+"/click", "alice", `{"x":9,"y":0}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/api/game/"+gameID+"/click", "alice", `not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = click(t, app, gameID, "alice", "e2", false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var v model.GameView
	decode(t, resp, &v)
	require.NotNil(t, v.State.Selection)
	assert.Len(t, v.State.LegalMoves, 2)

	click(t, app, gameID, "alice", "e4", false)
	resp = do(t, app, http.MethodPost, "/api/game/"+gameID+"/confirm", "alice", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &v)
	assert.Equal(t, model.Black, v.State.Turn)

	// Black plays from the flipped board.
	resp = click(t, app, gameID, "bob", "e7", true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &v)
	require.NotNil(t, v.State.Selection)
	assert.Equal(t, model.Position{X: 4, Y: 1}, v.State.Selection.Origin)
}

func TestQuickWinResults(t *testing.T) {
	app := newTestApp(t)
	gameID := startGame(t, app)

	moves := []struct {
		player, from, to string
	}{
		{"alice", "e2", "e4"},
		{"bob", "f7", "f6"},
		{"alice", "d1", "h5"},
		{"bob", "a7", "a6"},
		{"alice", "h5", "e8"},
	}
	for _, m := range moves {
		require.Equal(t, fiber.StatusOK, click(t, app, gameID, m.player, m.from, false).StatusCode)
		require.Equal(t, fiber.StatusOK, click(t, app, gameID, m.player, m.to, false).StatusCode)
		resp := do(t, app, http.MethodPost, "/api/game/"+gameID+"/confirm", m.player, "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp := do(t, app, http.MethodGet, "/api/game/"+gameID+"/results", "carol", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var records []model.GameRecord
	decode(t, resp, &records)
	require.Len(t, records, 1)
	assert.Equal(t, model.White, records[0].Winner)
	assert.Equal(t, 5, records[0].Turns)

	resp = do(t, app, http.MethodPost, "/api/game/"+gameID+"/reset", "bob", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var v model.GameView
	decode(t, resp, &v)
	assert.Equal(t, 2, v.Round)
	assert.False(t, v.State.Outcome.Over)
}

func TestBoardImage(t *testing.T) {
	app := newTestApp(t)
	gameID := startGame(t, app)

	resp := do(t, app, http.MethodGet, "/api/game/"+gameID+"/board.png?size=128&flipped=true", "carol", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])

	resp = do(t, app, http.MethodGet, "/api/game/"+gameID+"/board.png?size=4", "carol", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodGet, "/api/game/missing/board.png", "carol", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestJoinMatchmakingEndpoint(t *testing.T) {
	app := newTestApp(t)
	resp := do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
