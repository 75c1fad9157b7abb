package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/apperror"
)

const (
	MinSize      = 3
	MinWinLength = 3

	// MaxSize keeps N² cells far from int overflow and within a sane allocation.
	MaxSize = 1024
)

// GameConfig holds the board side length N and the run length K needed to win.
type GameConfig struct {
	Size      int `json:"size"`
	WinLength int `json:"win_length"`
}

// Validate - checks that 3 <= K <= N <= MaxSize.
func (that GameConfig) Validate() error {
	switch {
	case that.Size < MinSize:
		return fmt.Errorf("%w: size %d is below %d", apperror.ErrInvalidConfig, that.Size, MinSize)
	case that.Size > MaxSize:
		return fmt.Errorf("%w: size %d exceeds %d", apperror.ErrInvalidConfig, that.Size, MaxSize)
	case that.WinLength < MinWinLength:
		return fmt.Errorf("%w: win length %d is below %d", apperror.ErrInvalidConfig, that.WinLength, MinWinLength)
	case that.WinLength > that.Size:
		return fmt.Errorf("%w: win length %d exceeds size %d", apperror.ErrInvalidConfig, that.WinLength, that.Size)
	}

	return nil
}

// Cells returns N².
func (that GameConfig) Cells() int {
	return that.Size * that.Size
}
