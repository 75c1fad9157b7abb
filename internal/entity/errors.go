package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/apperror"
)

// RejectReason tells the caller why a move was not accepted.
type RejectReason string

const (
	ReasonGameOver     RejectReason = "game_over"
	ReasonOutOfRange   RejectReason = "out_of_range"
	ReasonCellOccupied RejectReason = "cell_occupied"
)

func (that RejectReason) sentinel() error {
	switch that {
	case ReasonGameOver:
		return apperror.ErrGameFinished
	case ReasonOutOfRange:
		return apperror.ErrCellOutOfRange
	default:
		return apperror.ErrCellOccupied
	}
}

// IllegalMoveError is returned by ApplyMove for expected user mistakes. It matches
// apperror.ErrIllegalMove and the sentinel of its reason with errors.Is.
type IllegalMoveError struct {
	Reason RejectReason
	Index  int
}

func (that *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move at cell %d: %v", that.Index, that.Reason.sentinel())
}

func (that *IllegalMoveError) Unwrap() []error {
	return []error{apperror.ErrIllegalMove, that.Reason.sentinel()}
}
