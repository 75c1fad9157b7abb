package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mnk/internal/settings"
)

func (that *Server) handleNewGame(ctx context.Context, sess *session, payload *Payload) (*Response, error) {
	game, err := that.games.NewGame(ctx, payload.patch().Apply(settings.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	sess.gameID = game.ID

	return &Response{game: game}, nil
}

func (that *Server) handleGetGame(ctx context.Context, sess *session, payload *Payload) (*Response, error) {
	gameID, err := sess.resolve(payload)
	if err != nil {
		return nil, err
	}

	game, err := that.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	sess.gameID = game.ID

	return &Response{game: game}, nil
}

func (that *Server) handleGameTurn(ctx context.Context, sess *session, payload *Payload) (*Response, error) {
	gameID, err := sess.resolve(payload)
	if err != nil {
		return nil, err
	}

	if payload.Cell == nil {
		return nil, errMissingCell
	}

	game, err := that.games.MakeMove(ctx, gameID, *payload.Cell)

	var illegalMove *entity.IllegalMoveError
	if errors.As(err, &illegalMove) {
		return &Response{game: game}, err
	}

	if err != nil {
		return nil, err
	}

	return &Response{game: game}, nil
}

func (that *Server) handleGameReset(ctx context.Context, sess *session, payload *Payload) (*Response, error) {
	gameID, err := sess.resolve(payload)
	if err != nil {
		return nil, err
	}

	game, err := that.games.ResetBoard(ctx, gameID)
	if err != nil {
		return nil, err
	}

	return &Response{game: game}, nil
}

// handleGameSettings - fields left out of the payload keep the stored values.
func (that *Server) handleGameSettings(ctx context.Context, sess *session, payload *Payload) (*Response, error) {
	gameID, err := sess.resolve(payload)
	if err != nil {
		return nil, err
	}

	game, err := that.games.PatchSettings(ctx, gameID, payload.patch())
	if err != nil {
		return nil, err
	}

	return &Response{game: game}, nil
}

func (that *Server) handleGameLeave(ctx context.Context, sess *session, payload *Payload) (*Response, error) {
	gameID, err := sess.resolve(payload)
	if err != nil {
		return nil, err
	}

	if err = that.games.EndGame(ctx, gameID); err != nil {
		return nil, err
	}

	if sess.gameID == gameID {
		sess.gameID = ""
	}

	return &Response{gameID: gameID}, nil
}
