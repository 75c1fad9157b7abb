package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mnk/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mnk/internal/settings"
	"github.com/rocketscienceinc/tictactoe-mnk/transport/view"
)

var (
	errInvalidRequest = errors.New("invalid request")
	errMissingCell    = fmt.Errorf("%w: cell is required", errInvalidRequest)
)

type gameService interface {
	NewGame(ctx context.Context, form settings.Form) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)

	MakeMove(ctx context.Context, id string, cell int) (*entity.Game, error)
	ResetBoard(ctx context.Context, id string) (*entity.Game, error)
	ChangeSettings(ctx context.Context, id string, form settings.Form) (*entity.Game, error)

	EndGame(ctx context.Context, id string) error
}

type GameHandlers interface {
	CreateGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	MakeMove(w http.ResponseWriter, r *http.Request)
	ResetBoard(w http.ResponseWriter, r *http.Request)
	ChangeSettings(w http.ResponseWriter, r *http.Request)
	EndGame(w http.ResponseWriter, r *http.Request)
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type gameHandlers struct {
	logger *slog.Logger
	games  gameService
}

func NewGameHandlers(logger *slog.Logger, games gameService) GameHandlers {
	return &gameHandlers{
		logger: logger,
		games:  games,
	}
}

// CreateGame - an empty body opens a game with the default settings.
func (that *gameHandlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	form := settings.Default()
	if err := decodeBody(r, &form, true); err != nil {
		that.writeError(w, "CreateGame", err, nil)
		return
	}

	game, err := that.games.NewGame(r.Context(), form)
	if err != nil {
		that.writeError(w, "CreateGame", err, nil)
		return
	}

	that.writeJSON(w, http.StatusCreated, view.NewGame(game))
}

func (that *gameHandlers) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "GetGame", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, view.NewGame(game))
}

func (that *gameHandlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(r, &req, false); err != nil {
		that.writeError(w, "MakeMove", err, nil)
		return
	}

	if req.Cell == nil {
		that.writeError(w, "MakeMove", errMissingCell, nil)
		return
	}

	game, err := that.games.MakeMove(r.Context(), r.PathValue("id"), *req.Cell)
	if err != nil {
		that.writeError(w, "MakeMove", err, game)
		return
	}

	that.writeJSON(w, http.StatusOK, view.NewGame(game))
}

func (that *gameHandlers) ResetBoard(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.ResetBoard(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "ResetBoard", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, view.NewGame(game))
}

func (that *gameHandlers) ChangeSettings(w http.ResponseWriter, r *http.Request) {
	var form settings.Form
	if err := decodeBody(r, &form, false); err != nil {
		that.writeError(w, "ChangeSettings", err, nil)
		return
	}

	game, err := that.games.ChangeSettings(r.Context(), r.PathValue("id"), form)
	if err != nil {
		that.writeError(w, "ChangeSettings", err, nil)
		return
	}

	that.writeJSON(w, http.StatusOK, view.NewGame(game))
}

func (that *gameHandlers) EndGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.EndGame(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, "EndGame", err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *gameHandlers) writeError(w http.ResponseWriter, method string, err error, game *entity.Game) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	}

	that.writeJSON(w, status, view.NewError(err, game))
}

func (that *gameHandlers) writeJSON(w http.ResponseWriter, status int, body any) {
	writeJSON(that.logger, w, status, body)
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}

// decodeBody - a body that is not valid JSON for target is reported as an invalid config.
func decodeBody(r *http.Request, target any, allowEmpty bool) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(target)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}

	if err != nil {
		return fmt.Errorf("%w: malformed request body: %w", apperror.ErrInvalidConfig, err)
	}

	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrIllegalMove), errors.Is(err, apperror.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidConfig), errors.Is(err, apperror.ErrInvalidSettings),
		errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
