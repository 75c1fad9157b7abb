package view

import (
	"errors"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/entity"
)

// Game is the wire shape of a game shared by the REST and WebSocket transports.
type Game struct {
	ID         string   `json:"id"`
	Size       int      `json:"size"`
	WinLength  int      `json:"win_length"`
	Board      []string `json:"board"`
	Next       string   `json:"next"`
	Status     string   `json:"status"`
	Winner     string   `json:"winner,omitempty"`
	LastMove   int      `json:"last_move"`
	StatusText string   `json:"status_text"`
}

func NewGame(game *entity.Game) *Game {
	if game == nil {
		return nil
	}

	board := make([]string, len(game.Board))
	for i, mark := range game.Board {
		board[i] = string(mark)
	}

	return &Game{
		ID:         game.ID,
		Size:       game.Config.Size,
		WinLength:  game.Config.WinLength,
		Board:      board,
		Next:       string(game.NextMark),
		Status:     string(game.Outcome.Status),
		Winner:     string(game.Outcome.Winner),
		LastMove:   game.LastMove,
		StatusText: game.StatusText(),
	}
}

// Error is the body sent for a failed request. Reason is set for rejected moves only.
type Error struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Game   *Game  `json:"game,omitempty"`
}

// NewError - builds the error body; a rejected move carries its reason and the unchanged game.
func NewError(err error, game *entity.Game) *Error {
	body := &Error{Error: err.Error()}

	var illegalMove *entity.IllegalMoveError
	if errors.As(err, &illegalMove) {
		body.Reason = string(illegalMove.Reason)
		body.Game = NewGame(game)
	}

	return body
}
