package apperror

import "errors"

var (
	ErrInvalidConfig   = errors.New("invalid game config")
	ErrInvalidSettings = errors.New("invalid settings")

	ErrIllegalMove    = errors.New("illegal move")
	ErrGameFinished   = errors.New("game is already finished")
	ErrCellOutOfRange = errors.New("cell index out of range")
	ErrCellOccupied   = errors.New("cell is already occupied")

	ErrCorruptState      = errors.New("corrupt game state")
	ErrGameNotFound      = errors.New("game not found")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrConcurrentUpdate  = errors.New("game was modified concurrently")
)
