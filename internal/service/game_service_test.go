package service

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/benbeisheim/splitchess-backend/internal/model"
	"github.com/benbeisheim/splitchess-backend/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, archive Archive) (*GameService, string) {
	t.Helper()
	gs := NewGameService(newTestManager(archive), view.NewRenderer(view.DefaultPieceSet{}, 16))
	gameID, err := gs.CreateGame()
	require.NoError(t, err)
	color, err := gs.JoinGame(gameID, "alice")
	require.NoError(t, err)
	require.Equal(t, model.White, color)
	color, err = gs.JoinGame(gameID, "bob")
	require.NoError(t, err)
	require.Equal(t, model.Black, color)
	return gs, gameID
}

func move(t *testing.T, gs *GameService, gameID, playerID, from, to string) {
	t.Helper()
	for _, name := range []string{from, to} {
		pos, err := model.ParseSquare(name)
		require.NoError(t, err)
		require.NoError(t, gs.HandleClick(gameID, playerID, pos))
	}
	require.NoError(t, gs.HandleConfirm(gameID, playerID))
}

func TestQuickWinIsArchived(t *testing.T) {
	archive := &memoryArchive{}
	gs, gameID := newTestService(t, archive)

	move(t, gs, gameID, "alice", "e2", "e4")
	move(t, gs, gameID, "bob", "f7", "f6")
	move(t, gs, gameID, "alice", "d1", "h5")
	move(t, gs, gameID, "bob", "a7", "a6")
	move(t, gs, gameID, "alice", "h5", "e8")

	v, err := gs.GetGameView(gameID)
	require.NoError(t, err)
	require.True(t, v.State.Outcome.Over)

	records, err := gs.Results(gameID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.White, records[0].Winner)
	assert.Equal(t, "alice", records[0].Players.White.ID)

	require.NoError(t, gs.HandleReset(gameID, "alice"))
	v, err = gs.GetGameView(gameID)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Round)
	assert.False(t, v.State.Outcome.Over)
}

func TestServiceUnknownGame(t *testing.T) {
	gs, _ := newTestService(t, nil)
	assert.ErrorIs(t, gs.HandleClick("nope", "alice", model.Position{}), ErrGameNotFound)
	assert.ErrorIs(t, gs.HandleConfirm("nope", "alice"), ErrGameNotFound)
	assert.ErrorIs(t, gs.HandleReset("nope", "alice"), ErrGameNotFound)
	assert.ErrorIs(t, gs.RegisterConnection("nope", "alice", nil), ErrGameNotFound)
	_, err := gs.RenderBoard("nope", false, 128)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestRenderBoard(t *testing.T) {
	gs, gameID := newTestService(t, nil)

	data, err := gs.RenderBoard(gameID, true, 128)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	_, err = gs.RenderBoard(gameID, false, 10)
	assert.Error(t, err)
}
