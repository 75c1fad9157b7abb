package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mnk/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mnk/internal/settings"
	"github.com/rocketscienceinc/tictactoe-mnk/transport/view"
)

type mockGameService struct {
	mock.Mock
}

func (that *mockGameService) NewGame(ctx context.Context, form settings.Form) (*entity.Game, error) {
	args := that.Called(ctx, form)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameService) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameService) MakeMove(ctx context.Context, id string, cell int) (*entity.Game, error) {
	args := that.Called(ctx, id, cell)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameService) ResetBoard(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameService) ChangeSettings(ctx context.Context, id string, form settings.Form) (*entity.Game, error) {
	args := that.Called(ctx, id, form)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameService) EndGame(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func newTestServer(t *testing.T) (*httptest.Server, *mockGameService) {
	t.Helper()

	games := &mockGameService{}
	t.Cleanup(func() { games.AssertExpectations(t) })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	srv := httptest.NewServer(NewServer(logger, games, settings.NewValidator(settings.DefaultBounds())).Handler())
	t.Cleanup(srv.Close)

	return srv, games
}

func newGame(t *testing.T, size, winLength int, moves ...int) *entity.Game {
	t.Helper()

	game, err := entity.Configure(entity.GameConfig{Size: size, WinLength: winLength})
	require.NoError(t, err)
	game.ID = "g1"

	for _, move := range moves {
		require.NoError(t, game.ApplyMove(move))
	}

	return game
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var body T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	return body
}

func TestPing(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/ping", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
}

func TestCreateGame(t *testing.T) {
	t.Run("Creates a game from the body", func(t *testing.T) {
		// Given: the service opens a 4x4 game
		srv, games := newTestServer(t)
		games.On("NewGame", mock.Anything, settings.Form{Size: 4, WinLength: 3}).Return(newGame(t, 4, 3), nil).Once()

		// When: POST /games is called
		resp := doRequest(t, http.MethodPost, srv.URL+"/games", `{"size":4,"win_length":3}`)

		// Then: 201 with the game view
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		body := decode[view.Game](t, resp)
		assert.Equal(t, "g1", body.ID)
		assert.Len(t, body.Board, 16)
		assert.Equal(t, "X", body.Next)
		assert.Equal(t, -1, body.LastMove)
	})

	t.Run("Empty body uses the defaults", func(t *testing.T) {
		srv, games := newTestServer(t)
		games.On("NewGame", mock.Anything, settings.Default()).Return(newGame(t, 5, 4), nil).Once()

		resp := doRequest(t, http.MethodPost, srv.URL+"/games", "")

		require.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Fractional size is a bad request", func(t *testing.T) {
		// Given: no service call is expected
		srv, _ := newTestServer(t)

		// When: the size is not an integer
		resp := doRequest(t, http.MethodPost, srv.URL+"/games", `{"size":3.5,"win_length":3}`)

		// Then: 400
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Invalid settings are a bad request", func(t *testing.T) {
		srv, games := newTestServer(t)
		games.On("NewGame", mock.Anything, settings.Form{Size: 4, WinLength: 5}).
			Return(nil, apperror.ErrInvalidSettings).Once()

		resp := doRequest(t, http.MethodPost, srv.URL+"/games", `{"size":4,"win_length":5}`)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[view.Error](t, resp)
		assert.Contains(t, body.Error, "invalid settings")
	})
}

func TestMakeMove(t *testing.T) {
	t.Run("Accepted move returns the new game", func(t *testing.T) {
		// Given: the service accepts a move on cell 4
		srv, games := newTestServer(t)
		games.On("MakeMove", mock.Anything, "g1", 4).Return(newGame(t, 3, 3, 4), nil).Once()

		// When: the move is posted
		resp := doRequest(t, http.MethodPost, srv.URL+"/games/g1/moves", `{"cell":4}`)

		// Then: 200 with X on the centre
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[view.Game](t, resp)
		assert.Equal(t, "X", body.Board[4])
		assert.Equal(t, "Next player: O", body.StatusText)
	})

	t.Run("Rejected move is a conflict with reason and game", func(t *testing.T) {
		// Given: the cell is taken
		srv, games := newTestServer(t)
		game := newGame(t, 3, 3, 4)
		moveErr := game.Clone().ApplyMove(4)
		games.On("MakeMove", mock.Anything, "g1", 4).Return(game, moveErr).Once()

		// When: the move is posted
		resp := doRequest(t, http.MethodPost, srv.URL+"/games/g1/moves", `{"cell":4}`)

		// Then: 409 naming the reason and carrying the unchanged board
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		body := decode[view.Error](t, resp)
		assert.Equal(t, "cell_occupied", body.Reason)
		require.NotNil(t, body.Game)
		assert.Equal(t, "O", body.Game.Next)
	})

	t.Run("Missing cell is a bad request, not a config error", func(t *testing.T) {
		// Given: no service call is expected
		srv, _ := newTestServer(t)

		// When: the body has no cell
		resp := doRequest(t, http.MethodPost, srv.URL+"/games/g1/moves", `{}`)

		// Then: 400 naming the missing cell
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[view.Error](t, resp)
		assert.Equal(t, errMissingCell.Error(), body.Error)
		assert.NotContains(t, body.Error, apperror.ErrInvalidConfig.Error())
	})

	t.Run("Unknown game is not found", func(t *testing.T) {
		srv, games := newTestServer(t)
		games.On("MakeMove", mock.Anything, "nope", 0).Return(nil, apperror.ErrGameNotFound).Once()

		resp := doRequest(t, http.MethodPost, srv.URL+"/games/nope/moves", `{"cell":0}`)

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGameRoutes(t *testing.T) {
	t.Run("GetGame", func(t *testing.T) {
		srv, games := newTestServer(t)
		games.On("GetGame", mock.Anything, "g1").Return(newGame(t, 3, 3, 0, 1, 4, 2, 8), nil).Once()

		resp := doRequest(t, http.MethodGet, srv.URL+"/games/g1", "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[view.Game](t, resp)
		assert.Equal(t, "won", body.Status)
		assert.Equal(t, "X", body.Winner)
		assert.Equal(t, "Winner: X", body.StatusText)
	})

	t.Run("ResetBoard", func(t *testing.T) {
		srv, games := newTestServer(t)
		games.On("ResetBoard", mock.Anything, "g1").Return(newGame(t, 3, 3), nil).Once()

		resp := doRequest(t, http.MethodPost, srv.URL+"/games/g1/reset", "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("ChangeSettings", func(t *testing.T) {
		srv, games := newTestServer(t)
		games.On("ChangeSettings", mock.Anything, "g1", settings.Form{Size: 6, WinLength: 4}).
			Return(newGame(t, 6, 4), nil).Once()

		resp := doRequest(t, http.MethodPut, srv.URL+"/games/g1/settings", `{"size":6,"win_length":4}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[view.Game](t, resp)
		assert.Equal(t, 6, body.Size)
		assert.Equal(t, 4, body.WinLength)
	})

	t.Run("EndGame", func(t *testing.T) {
		srv, games := newTestServer(t)
		games.On("EndGame", mock.Anything, "g1").Return(nil).Once()

		resp := doRequest(t, http.MethodDelete, srv.URL+"/games/g1", "")

		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("Storage failure is an internal error", func(t *testing.T) {
		srv, games := newTestServer(t)
		games.On("GetGame", mock.Anything, "g1").Return(nil, io.ErrUnexpectedEOF).Once()

		resp := doRequest(t, http.MethodGet, srv.URL+"/games/g1", "")

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing cell", err: errMissingCell, want: http.StatusBadRequest},
		{name: "invalid config", err: apperror.ErrInvalidConfig, want: http.StatusBadRequest},
		{name: "invalid settings", err: apperror.ErrInvalidSettings, want: http.StatusBadRequest},
		{name: "illegal move", err: apperror.ErrIllegalMove, want: http.StatusConflict},
		{name: "concurrent update", err: apperror.ErrConcurrentUpdate, want: http.StatusConflict},
		{name: "not found", err: apperror.ErrGameNotFound, want: http.StatusNotFound},
		{name: "anything else", err: io.ErrUnexpectedEOF, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
