package apperror

import "errors"

var (
	ErrGameFinished       = errors.New("game is already finished")
	ErrGameNotFound       = errors.New("game not found")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrOutOfBounds        = errors.New("coordinates are outside the board")
	ErrInvalidSelection   = errors.New("square cannot be selected")
	ErrNoSelection        = errors.New("no piece is selected")
	ErrIllegalDestination = errors.New("destination is not a legal move")
	ErrPieceNotOnBoard    = errors.New("piece is not on the board")
	ErrTooManyConflicts   = errors.New("game was modified concurrently too many times")
	ErrLightSquare        = errors.New("pieces stand on dark squares only")
	ErrTooManyPieces      = errors.New("too many pieces of one color")
	ErrCountMismatch      = errors.New("saved counters do not match the pieces")
)
