package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
)

// Board owns the grid of pieces and the per-color counters.
// A nil cell is an empty square.
type Board struct {
	settings Settings
	grid     [][]*Piece
	left     map[Color]int
	kings    map[Color]int
}

// NewBoard returns a board in the standard starting position.
func NewBoard(settings Settings) *Board {
	board := NewEmptyBoard(settings)
	board.Initialize()

	return board
}

func NewEmptyBoard(settings Settings) *Board {
	board := &Board{settings: settings}
	board.Clear()

	return board
}

func (that *Board) Settings() Settings {
	return that.settings
}

// Initialize resets the grid to the starting position: white on the dark
// squares of the top rows, grey on the dark squares of the bottom rows.
func (that *Board) Initialize() {
	that.Clear()

	for row := 0; row < that.settings.Rows; row++ {
		for col := 0; col < that.settings.Cols; col++ {
			if !that.settings.IsDark(row, col) {
				continue
			}

			var color Color
			switch {
			case row < that.settings.StartRows:
				color = White
			case row >= that.settings.Rows-that.settings.StartRows:
				color = Grey
			default:
				continue
			}

			piece := NewPiece(that.settings, row, col, color)
			piece.Taunting = true
			that.put(piece)
		}
	}
}

// Clear empties the grid and zeroes every counter.
func (that *Board) Clear() {
	that.grid = make([][]*Piece, that.settings.Rows)
	for row := range that.grid {
		that.grid[row] = make([]*Piece, that.settings.Cols)
	}

	that.left = map[Color]int{White: 0, Grey: 0}
	that.kings = map[Color]int{White: 0, Grey: 0}
}

// Place puts a new piece on an empty dark square. It is meant for setting up
// positions, not for playing moves.
func (that *Board) Place(row, col int, color Color, king bool) (*Piece, error) {
	pos := Position{Row: row, Col: col}

	if !that.settings.InBounds(row, col) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrOutOfBounds, pos)
	}

	if !color.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColor, color)
	}

	if !that.settings.IsDark(row, col) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrLightSquare, pos)
	}

	if that.grid[row][col] != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrCellOccupied, pos)
	}

	if that.left[color] >= that.settings.MaxPieces() {
		return nil, fmt.Errorf("%w: %s already has %d", apperror.ErrTooManyPieces, color, that.left[color])
	}

	piece := NewPiece(that.settings, row, col, color)
	piece.King = king
	that.put(piece)

	return piece, nil
}

func (that *Board) put(piece *Piece) {
	that.grid[piece.Row][piece.Col] = piece
	that.left[piece.Color]++

	if piece.King {
		that.kings[piece.Color]++
	}
}

// PieceAt returns the occupant of a square, nil for an empty one.
func (that *Board) PieceAt(row, col int) (*Piece, error) {
	if !that.settings.InBounds(row, col) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrOutOfBounds, Position{Row: row, Col: col})
	}

	return that.grid[row][col], nil
}

// ApplyMove moves a piece to an empty square and promotes it when it lands
// on the first or the last row. Legality is not checked here.
func (that *Board) ApplyMove(piece *Piece, row, col int) error {
	if piece == nil || !that.settings.InBounds(piece.Row, piece.Col) || that.grid[piece.Row][piece.Col] != piece {
		return apperror.ErrPieceNotOnBoard
	}

	target, err := that.PieceAt(row, col)
	if err != nil {
		return err
	}

	if target != nil {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, Position{Row: row, Col: col})
	}

	that.grid[piece.Row][piece.Col], that.grid[row][col] = that.grid[row][col], that.grid[piece.Row][piece.Col]
	piece.MoveTo(row, col)

	// either extreme row promotes, whatever the color's direction of travel
	if (row == 0 || row == that.settings.Rows-1) && !piece.King {
		piece.Promote()
		that.kings[piece.Color]++
	}

	return nil
}

// RemovePieces takes captured pieces off the grid. Pieces that are no longer
// on the board are skipped so counters are never decremented twice.
func (that *Board) RemovePieces(pieces []*Piece) {
	for _, piece := range pieces {
		if piece == nil || !that.settings.InBounds(piece.Row, piece.Col) {
			continue
		}

		if that.grid[piece.Row][piece.Col] != piece {
			continue
		}

		that.grid[piece.Row][piece.Col] = nil
		that.left[piece.Color]--

		if piece.King {
			that.kings[piece.Color]--
		}
	}
}

// Winner returns the side whose opponent has no pieces left, or NoColor.
func (that *Board) Winner() Color {
	switch {
	case that.left[Grey] <= 0:
		return White
	case that.left[White] <= 0:
		return Grey
	default:
		return NoColor
	}
}

func (that *Board) Left(color Color) int {
	return that.left[color]
}

func (that *Board) Kings(color Color) int {
	return that.kings[color]
}

// Pieces lists the pieces on the board in row-major order.
func (that *Board) Pieces() []*Piece {
	pieces := make([]*Piece, 0, that.left[White]+that.left[Grey])

	for _, cells := range that.grid {
		for _, piece := range cells {
			if piece != nil {
				pieces = append(pieces, piece)
			}
		}
	}

	return pieces
}

// Restore replaces the board contents with a saved position. Counters are
// taken from the pieces; saved counters, where present, must agree with them.
func (that *Board) Restore(pieces []PieceState, left, kings map[Color]int) error {
	that.Clear()

	for _, state := range pieces {
		piece, err := that.Place(state.Row, state.Col, state.Color, state.King)
		if err != nil {
			that.Clear()
			return fmt.Errorf("failed to restore piece: %w", err)
		}

		piece.Taunting = state.Taunting
	}

	for _, color := range []Color{White, Grey} {
		if count, ok := left[color]; ok && count != that.left[color] {
			that.Clear()
			return fmt.Errorf("%w: %s left %d, %d on the grid", apperror.ErrCountMismatch, color, count, that.left[color])
		}

		if count, ok := kings[color]; ok && count != that.kings[color] {
			that.Clear()
			return fmt.Errorf("%w: %s kings %d, %d on the grid", apperror.ErrCountMismatch, color, count, that.kings[color])
		}
	}

	return nil
}

// String draws the grid for debug logs: w/g for men, W/G for kings.
func (that *Board) String() string {
	var sb strings.Builder

	sb.WriteString(" ")
	for col := 0; col < that.settings.Cols; col++ {
		fmt.Fprintf(&sb, " %d", col)
	}
	sb.WriteString("\n")

	for row, cells := range that.grid {
		fmt.Fprintf(&sb, "%d", row)

		for _, piece := range cells {
			sb.WriteString(" ")
			sb.WriteString(pieceGlyph(piece))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func pieceGlyph(piece *Piece) string {
	if piece == nil {
		return "."
	}

	glyph := string(piece.Color[0])
	if piece.King {
		glyph = strings.ToUpper(glyph)
	}

	return glyph
}
