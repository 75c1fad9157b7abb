package entity

// Mark is a player symbol. EmptyCell marks a free cell on the board.
type Mark string

const (
	MarkX     Mark = "X"
	MarkO     Mark = "O"
	EmptyCell Mark = ""
)

// Opponent returns the mark that moves after this one.
func (that Mark) Opponent() Mark {
	if that == MarkX {
		return MarkO
	}
	return MarkX
}

func (that Mark) IsPlayer() bool {
	return that == MarkX || that == MarkO
}
