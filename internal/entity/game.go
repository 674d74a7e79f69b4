package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const BoardSize = 3

// Mark is the symbol a player puts on the board. Empty marks a free cell.
type Mark string

const (
	Empty  Mark = ""
	First  Mark = "X"
	Second Mark = "O"
)

// Other returns the opposing mark.
func (that Mark) Other() Mark {
	if that == First {
		return Second
	}
	return First
}

// IsValid reports whether the mark belongs to a player.
func (that Mark) IsValid() bool {
	return that == First || that == Second
}

type Mode string

const (
	PlayerVsPlayer Mode = "player"
	PlayerVsAI     Mode = "ai"
)

// ParseMode maps the boundary mode name, anything but "ai" is a two-player game.
func ParseMode(name string) Mode {
	if name == string(PlayerVsAI) {
		return PlayerVsAI
	}
	return PlayerVsPlayer
}

// IsValid reports whether the mode is a known one.
func (that Mode) IsValid() bool {
	return that == PlayerVsPlayer || that == PlayerVsAI
}

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusFirstWins  Status = "x_wins"
	StatusSecondWins Status = "o_wins"
	StatusDraw       Status = "draw"
)

// IsTerminal reports whether the game has been decided.
func (that Status) IsTerminal() bool {
	return that != StatusInProgress
}

// WinCombos lists the winning lines in scan order: rows, columns, main diagonal, anti-diagonal.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is the 3x3 grid stored row-major.
type Board [BoardSize * BoardSize]Mark

// At returns the mark at (row, col). The coordinates must be in bounds.
func (that *Board) At(row, col int) Mark {
	return that[row*BoardSize+col]
}

// Occupied counts the non-empty cells.
func (that *Board) Occupied() int {
	count := 0
	for _, cell := range that {
		if cell != Empty {
			count++
		}
	}
	return count
}

// IsFull reports whether no free cell is left.
func (that *Board) IsFull() bool {
	return that.Occupied() == len(that)
}

// Game is the state of one match. It is a value type: copying it copies the board.
type Game struct {
	Board Board
	Turn  Mark
	Mode  Mode
}

// NewGame creates an empty game. playerFirst only matters in PlayerVsAI mode,
// where false hands the opening move to the AI (Second).
func NewGame(mode Mode, playerFirst *bool) *Game {
	turn := First
	if mode == PlayerVsAI && playerFirst != nil && !*playerFirst {
		turn = Second
	}

	return &Game{
		Turn: turn,
		Mode: mode,
	}
}

// ApplyMove puts the mark of the side to move on (row, col) and passes the turn.
// A rejected move leaves the game untouched.
func (that *Game) ApplyMove(row, col int) error {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	cell := row*BoardSize + col
	if that.Board[cell] != Empty {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrCellOccupied, row, col)
	}

	that.Board[cell] = that.Turn
	that.Turn = that.Turn.Other()

	return nil
}

// Status evaluates the board. It does not look at whose turn it is.
func (that *Game) Status() Status {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != Empty && a == b && b == c {
			if a == First {
				return StatusFirstWins
			}
			return StatusSecondWins
		}
	}

	// the game will continue until all the squares are full
	if !that.Board.IsFull() {
		return StatusInProgress
	}

	return StatusDraw
}

// IsAITurn reports whether the AI is expected to move next.
func (that *Game) IsAITurn(aiMark Mark) bool {
	return that.Mode == PlayerVsAI && that.Turn == aiMark && that.Status() == StatusInProgress
}
