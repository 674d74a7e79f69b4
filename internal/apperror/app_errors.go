package apperror

import "errors"

var (
	ErrOutOfBounds   = errors.New("cell is out of bounds")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrNoLegalMove   = errors.New("no legal move available")
	ErrInvalidState  = errors.New("invalid game state")
	ErrGameNotFound  = errors.New("game not found")
	ErrUnknownAction = errors.New("unknown action")
)
