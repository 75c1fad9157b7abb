package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mnk/internal/settings"
)

type GameService interface {
	NewGame(ctx context.Context, form settings.Form) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)

	MakeMove(ctx context.Context, id string, cell int) (*entity.Game, error)
	ResetBoard(ctx context.Context, id string) (*entity.Game, error)
	ChangeSettings(ctx context.Context, id string, form settings.Form) (*entity.Game, error)
	PatchSettings(ctx context.Context, id string, patch settings.Patch) (*entity.Game, error)

	EndGame(ctx context.Context, id string) error
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, apply func(game *entity.Game) error) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type formValidator interface {
	Validate(form settings.Form) error
}

type gameService struct {
	logger *slog.Logger

	gameRepo  gameRepo
	validator formValidator
	newID     func() string
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo, validator formValidator) GameService {
	return &gameService{
		logger:    logger.With("component", "game_service"),
		gameRepo:  gameRepo,
		validator: validator,
		newID:     uuid.NewString,
	}
}

// NewGame - validates the form, configures a fresh board and opens a session for it.
func (that *gameService) NewGame(ctx context.Context, form settings.Form) (*entity.Game, error) {
	game, err := that.configure(form)
	if err != nil {
		return nil, err
	}

	game.ID = that.newID()

	if err = that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Debug("game created", "gameID", game.ID, "size", game.Config.Size, "winLength", game.Config.WinLength)

	return game, nil
}

func (that *gameService) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// MakeMove - applies the click atomically. A rejected move returns the unchanged game together
// with the *entity.IllegalMoveError.
func (that *gameService) MakeMove(ctx context.Context, id string, cell int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeMove", "gameID", id, "cell", cell)

	game, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) error {
		return game.ApplyMove(cell)
	})

	var illegalMove *entity.IllegalMoveError
	if errors.As(err, &illegalMove) {
		log.Debug("move rejected", "reason", illegalMove.Reason)
		return game, err
	}

	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	switch {
	case game.Outcome.IsWon():
		log.Info("win detected", "winner", game.Outcome.Winner, "moves", game.Moves)
	case game.Outcome.IsDraw():
		log.Info("draw detected", "moves", game.Moves)
	}

	return game, nil
}

func (that *gameService) ResetBoard(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) error {
		game.ResetBoard()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset board: %w", err)
	}

	that.logger.Debug("board reset", "gameID", id)

	return game, nil
}

// ChangeSettings - starts over on a board with the new size and win length. The session ID stays.
func (that *gameService) ChangeSettings(ctx context.Context, id string, form settings.Form) (*entity.Game, error) {
	if err := that.validator.Validate(form); err != nil {
		return nil, err
	}

	return that.PatchSettings(ctx, id, settings.Patch{Size: &form.Size, WinLength: &form.WinLength})
}

// PatchSettings - like ChangeSettings, but fields the patch leaves nil keep the stored values.
// The merge runs inside the update, so it always sees the config it replaces.
func (that *gameService) PatchSettings(ctx context.Context, id string, patch settings.Patch) (*entity.Game, error) {
	var form settings.Form

	game, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) error {
		form = patch.Apply(settings.FormOf(game.Config))

		configured, err := that.configure(form)
		if err != nil {
			return err
		}

		*game = *configured
		game.ID = id

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to change settings: %w", err)
	}

	that.logger.Debug("settings changed", "gameID", id, "size", form.Size, "winLength", form.WinLength)

	return game, nil
}

func (that *gameService) EndGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to end game: %w", err)
	}

	that.logger.Debug("game ended", "gameID", id)

	return nil
}

func (that *gameService) configure(form settings.Form) (*entity.Game, error) {
	if err := that.validator.Validate(form); err != nil {
		return nil, err
	}

	game, err := entity.Configure(form.Config())
	if err != nil {
		return nil, err
	}

	return game, nil
}
