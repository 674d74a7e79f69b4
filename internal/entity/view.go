package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// GameView is the wire form of a game that clients round-trip on every call.
// Status and IsAITurn are derived and ignored on input.
type GameView struct {
	ID       string                     `json:"id,omitempty"`
	Board    [BoardSize][BoardSize]Mark `json:"board"`
	Turn     Mark                       `json:"turn"`
	Mode     Mode                       `json:"mode"`
	Status   Status                     `json:"status"`
	IsAITurn bool                       `json:"is_ai_turn"`
}

func NewGameView(id string, game *Game, aiMark Mark) *GameView {
	view := &GameView{
		ID:       id,
		Turn:     game.Turn,
		Mode:     game.Mode,
		Status:   game.Status(),
		IsAITurn: game.IsAITurn(aiMark),
	}

	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			view.Board[row][col] = game.Board.At(row, col)
		}
	}

	return view
}

// Game rebuilds the game state carried by the view.
func (that *GameView) Game() (*Game, error) {
	if !that.Turn.IsValid() {
		return nil, fmt.Errorf("%w: turn %q", apperror.ErrInvalidState, that.Turn)
	}

	if !that.Mode.IsValid() {
		return nil, fmt.Errorf("%w: mode %q", apperror.ErrInvalidState, that.Mode)
	}

	game := &Game{
		Turn: that.Turn,
		Mode: that.Mode,
	}

	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			game.Board[row*BoardSize+col] = that.Board[row][col]
		}
	}

	return game, nil
}

// MarshalJSON writes an empty cell as null.
func (that Mark) MarshalJSON() ([]byte, error) {
	if that == Empty {
		return []byte("null"), nil
	}
	return json.Marshal(string(that))
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*that = Empty
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: mark %s", apperror.ErrInvalidState, data)
	}

	switch mark := Mark(raw); mark {
	case Empty, First, Second:
		*that = mark
		return nil
	default:
		return fmt.Errorf("%w: mark %q", apperror.ErrInvalidState, raw)
	}
}
