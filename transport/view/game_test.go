package view

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/entity"
)

func TestNewGame(t *testing.T) {
	// Given: a 3x3 game after X took the centre
	game, err := entity.Configure(entity.GameConfig{Size: 3, WinLength: 3})
	require.NoError(t, err)
	game.ID = "abc"
	require.NoError(t, game.ApplyMove(4))

	// When: the view is built
	gameView := NewGame(game)

	// Then: every field mirrors the game
	assert.Equal(t, &Game{
		ID:         "abc",
		Size:       3,
		WinLength:  3,
		Board:      []string{"", "", "", "", "X", "", "", "", ""},
		Next:       "O",
		Status:     "in_progress",
		LastMove:   4,
		StatusText: "Next player: O",
	}, gameView)

	assert.Nil(t, NewGame(nil))
}

func TestNewError(t *testing.T) {
	game, err := entity.Configure(entity.GameConfig{Size: 3, WinLength: 3})
	require.NoError(t, err)

	t.Run("Rejected move carries reason and game", func(t *testing.T) {
		moveErr := game.ApplyMove(9)

		body := NewError(moveErr, game)

		assert.Equal(t, "out_of_range", body.Reason)
		require.NotNil(t, body.Game)
		assert.Len(t, body.Game.Board, 9)
	})

	t.Run("Other errors carry only the message", func(t *testing.T) {
		body := NewError(errors.New("boom"), game)

		assert.Equal(t, &Error{Error: "boom"}, body)
	})
}
