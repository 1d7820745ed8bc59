package entity

import "fmt"

// Position is a grid coordinate.
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (that Position) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// Piece is a single checker. Legality of its moves is decided by the Board,
// the piece only keeps its own coordinates in sync.
type Piece struct {
	Row   int
	Col   int
	Color Color
	King  bool

	// Taunting marks the trash-talking variant. Clients may show a message
	// when such a piece moves; the rules ignore it.
	Taunting bool

	// X and Y are the pixel centre of the piece for the board client.
	X int
	Y int

	square int
}

func NewPiece(settings Settings, row, col int, color Color) *Piece {
	piece := &Piece{
		Row:    row,
		Col:    col,
		Color:  color,
		square: settings.SquareSize(),
	}
	piece.locate()

	return piece
}

// MoveTo sets new coordinates without any validation.
func (that *Piece) MoveTo(row, col int) {
	that.Row = row
	that.Col = col
	that.locate()
}

func (that *Piece) Promote() {
	that.King = true
}

func (that *Piece) Position() Position {
	return Position{Row: that.Row, Col: that.Col}
}

func (that *Piece) State() PieceState {
	return PieceState{
		Row:      that.Row,
		Col:      that.Col,
		Color:    that.Color,
		King:     that.King,
		Taunting: that.Taunting,
	}
}

func (that *Piece) String() string {
	return string(that.Color)
}

func (that *Piece) locate() {
	that.X = that.square*that.Col + that.square/2
	that.Y = that.square*that.Row + that.square/2
}

// PieceState is the serialisable form of a piece.
type PieceState struct {
	Row      int   `json:"row" yaml:"row"`
	Col      int   `json:"col" yaml:"col"`
	Color    Color `json:"color" yaml:"color"`
	King     bool  `json:"king,omitempty" yaml:"king"`
	Taunting bool  `json:"taunting,omitempty" yaml:"taunting"`
}
