package entity

import (
	"errors"
	"fmt"
)

const (
	White   Color = "white"
	Grey    Color = "grey"
	NoColor Color = ""
)

const (
	up   = -1
	down = 1
)

var ErrInvalidSettings = errors.New("invalid board settings")

// Color identifies a side. White starts on the top rows and advances down the
// board, grey starts on the bottom rows and advances up.
type Color string

func (that Color) Valid() bool {
	return that == White || that == Grey
}

// Opponent returns the other side, or NoColor for an unknown color.
func (that Color) Opponent() Color {
	switch that {
	case White:
		return Grey
	case Grey:
		return White
	default:
		return NoColor
	}
}

// Advance is the row step of a non-king piece of this color.
func (that Color) Advance() int {
	if that == White {
		return down
	}
	return up
}

// Settings holds the board geometry shared by every board, piece and session
// of the process. It is built once at startup and passed by value.
type Settings struct {
	Width     int
	Height    int
	Rows      int
	Cols      int
	StartRows int
}

func DefaultSettings() Settings {
	return Settings{
		Width:     600,
		Height:    600,
		Rows:      8,
		Cols:      8,
		StartRows: 3,
	}
}

// MaxPieces is the number of pieces a side starts with and may never exceed.
func (that Settings) MaxPieces() int {
	return (that.StartRows*that.Cols + 1) / 2
}

func (that Settings) Validate() error {
	switch {
	case that.Rows <= 0 || that.Cols <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidSettings, that.Rows, that.Cols)
	case that.Width < that.Cols || that.Height < that.Rows:
		return fmt.Errorf("%w: window %dx%d is smaller than the grid", ErrInvalidSettings, that.Width, that.Height)
	case that.StartRows < 0 || 2*that.StartRows > that.Rows:
		return fmt.Errorf("%w: %d starting rows on %d rows", ErrInvalidSettings, that.StartRows, that.Rows)
	}

	return nil
}

// SquareSize is the pixel width of one square.
func (that Settings) SquareSize() int {
	return that.Width / that.Cols
}

func (that Settings) InBounds(row, col int) bool {
	return row >= 0 && row < that.Rows && col >= 0 && col < that.Cols
}

// IsDark reports whether pieces stand on the square in the starting layout.
func (that Settings) IsDark(row, col int) bool {
	return (row+col)%2 == 1
}

// CellAt translates a pixel coordinate of the board window into a grid
// coordinate. ok is false for points outside the window.
func (that Settings) CellAt(x, y int) (Position, bool) {
	if x < 0 || y < 0 || x >= that.Width || y >= that.Height {
		return Position{}, false
	}

	square := that.SquareSize()
	pos := Position{Row: y / square, Col: x / square}

	return pos, that.InBounds(pos.Row, pos.Col)
}
