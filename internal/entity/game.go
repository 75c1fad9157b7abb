package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/apperror"
)

// NoMove is the LastMove value of a board nobody has played on yet.
const NoMove = -1

// directions are the four undirected lines through a cell: horizontal, vertical,
// diagonal and anti-diagonal.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Game is the state of one (N,K) game. Board is row-major: (row, col) lives at row*N+col.
type Game struct {
	ID       string     `json:"id,omitempty"`
	Config   GameConfig `json:"config"`
	Board    []Mark     `json:"board"`
	NextMark Mark       `json:"next_mark"`
	Outcome  Outcome    `json:"outcome"`
	LastMove int        `json:"last_move"`
	Moves    int        `json:"moves"`
}

// Configure - validates the config and returns a fresh game with an empty board and X to move.
func Configure(config GameConfig) (*Game, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	game := &Game{Config: config}
	game.ResetBoard()

	return game, nil
}

// ResetBoard - clears the board and hands the first move back to X. The config is kept.
func (that *Game) ResetBoard() {
	that.Board = make([]Mark, that.Config.Cells())
	that.NextMark = MarkX
	that.Outcome = InProgress()
	that.LastMove = NoMove
	that.Moves = 0
}

// ApplyMove - places NextMark at index and settles the outcome. A rejected move returns
// an *IllegalMoveError and leaves the game untouched.
func (that *Game) ApplyMove(index int) error {
	if that.Outcome.IsOver() {
		return &IllegalMoveError{Reason: ReasonGameOver, Index: index}
	}

	if index < 0 || index >= len(that.Board) {
		return &IllegalMoveError{Reason: ReasonOutOfRange, Index: index}
	}

	if that.Board[index] != EmptyCell {
		return &IllegalMoveError{Reason: ReasonCellOccupied, Index: index}
	}

	mark := that.NextMark
	that.Board[index] = mark
	that.LastMove = index
	that.Moves++

	switch {
	case that.winsAt(index):
		that.Outcome = Won(mark)
	case that.Moves == len(that.Board):
		that.Outcome = Draw()
	default:
		that.NextMark = mark.Opponent()
	}

	return nil
}

// winsAt - scans only the lines through index, so the check costs O(K) per move.
func (that *Game) winsAt(index int) bool {
	mark := that.Board[index]
	if !mark.IsPlayer() {
		return false
	}

	size := that.Config.Size
	row, col := index/size, index%size

	for _, dir := range directions {
		count := 1 + that.run(row, col, dir[0], dir[1], mark) + that.run(row, col, -dir[0], -dir[1], mark)
		if count >= that.Config.WinLength {
			return true
		}
	}

	return false
}

// run counts consecutive cells holding mark, starting next to (row, col) and stepping by (dr, dc).
// The anchor cell itself is not counted and the walk stops once a win is already certain.
func (that *Game) run(row, col, dr, dc int, mark Mark) int {
	size := that.Config.Size
	limit := that.Config.WinLength - 1

	count := 0
	for r, c := row+dr, col+dc; count < limit; r, c = r+dr, c+dc {
		if r < 0 || r >= size || c < 0 || c >= size || that.Board[r*size+c] != mark {
			break
		}
		count++
	}

	return count
}

// Index maps a grid position to a board index, or -1 when the position is off the grid.
func (that *Game) Index(row, col int) int {
	size := that.Config.Size
	if row < 0 || row >= size || col < 0 || col >= size {
		return -1
	}
	return row*size + col
}

// Cell returns the mark at (row, col); positions off the grid read as empty.
func (that *Game) Cell(row, col int) Mark {
	index := that.Index(row, col)
	if index < 0 || index >= len(that.Board) {
		return EmptyCell
	}
	return that.Board[index]
}

// StatusText is the line a UI shows above the grid.
func (that *Game) StatusText() string {
	switch that.Outcome.Status {
	case StatusDraw:
		return "Draw!"
	case StatusWon:
		return fmt.Sprintf("Winner: %s", that.Outcome.Winner)
	default:
		return fmt.Sprintf("Next player: %s", that.NextMark)
	}
}

// Clone returns a deep copy that shares no memory with the original.
func (that *Game) Clone() *Game {
	clone := *that
	clone.Board = make([]Mark, len(that.Board))
	copy(clone.Board, that.Board)

	return &clone
}

// String renders the board one row per line with '.' for empty cells.
func (that *Game) String() string {
	var sb strings.Builder

	size := that.Config.Size
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			mark := that.Cell(row, col)
			if mark == EmptyCell {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(mark))
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Validate - checks every invariant of a game state, e.g. one decoded from storage.
func (that *Game) Validate() error {
	if err := that.Config.Validate(); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrCorruptState, err)
	}

	if len(that.Board) != that.Config.Cells() {
		return corrupt("board has %d cells, want %d", len(that.Board), that.Config.Cells())
	}

	var xCount, oCount int
	for i, cell := range that.Board {
		switch cell {
		case MarkX:
			xCount++
		case MarkO:
			oCount++
		case EmptyCell:
		default:
			return corrupt("unknown mark %q at cell %d", cell, i)
		}
	}

	if diff := xCount - oCount; diff != 0 && diff != 1 {
		return corrupt("X count %d and O count %d do not alternate", xCount, oCount)
	}

	if that.Moves != xCount+oCount {
		return corrupt("moves %d does not match %d marks on board", that.Moves, xCount+oCount)
	}

	if that.Moves == 0 {
		if that.LastMove != NoMove {
			return corrupt("last move %d on an empty board", that.LastMove)
		}
	} else if that.LastMove < 0 || that.LastMove >= len(that.Board) || that.Board[that.LastMove] == EmptyCell {
		return corrupt("last move %d does not point at a mark", that.LastMove)
	}

	return that.validateOutcome(xCount, oCount)
}

func (that *Game) validateOutcome(xCount, oCount int) error {
	won := that.LastMove != NoMove && that.winsAt(that.LastMove)

	switch that.Outcome.Status {
	case StatusInProgress:
		if won || that.Moves == len(that.Board) {
			return corrupt("game is over but marked in progress")
		}
		if want := nextMarkFor(xCount, oCount); that.NextMark != want {
			return corrupt("next mark %q, want %q", that.NextMark, want)
		}
	case StatusWon:
		if !won || that.Board[that.LastMove] != that.Outcome.Winner {
			return corrupt("winner %q has no run through the last move", that.Outcome.Winner)
		}
	case StatusDraw:
		if won || that.Moves != len(that.Board) {
			return corrupt("draw on a board that is not full or has a winner")
		}
	default:
		return corrupt("unknown status %q", that.Outcome.Status)
	}

	return nil
}

func nextMarkFor(xCount, oCount int) Mark {
	if xCount == oCount {
		return MarkX
	}
	return MarkO
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperror.ErrCorruptState, fmt.Sprintf(format, args...))
}
