package entity

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout is a custom position, written in YAML:
//
//	turn: white
//	pieces:
//	  - {row: 2, col: 1, color: white}
//	  - {row: 3, col: 2, color: grey, king: true}
type Layout struct {
	Turn   Color        `yaml:"turn"`
	Pieces []PieceState `yaml:"pieces"`
}

func LoadLayout(r io.Reader) (*Layout, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var layout Layout
	if err := decoder.Decode(&layout); err != nil {
		return nil, fmt.Errorf("failed to decode layout: %w", err)
	}

	if layout.Turn == NoColor {
		layout.Turn = Grey
	}

	if !layout.Turn.Valid() {
		return nil, fmt.Errorf("%w: turn %q", ErrUnknownColor, layout.Turn)
	}

	return &layout, nil
}

func ReadLayoutFile(path string) (*Layout, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout: %w", err)
	}
	defer file.Close()

	return LoadLayout(file)
}

// Setup clears the board and places the layout's pieces on it. Both colors
// must be present.
func (that *Layout) Setup(board *Board) error {
	board.Clear()

	for _, state := range that.Pieces {
		piece, err := board.Place(state.Row, state.Col, state.Color, state.King)
		if err != nil {
			return fmt.Errorf("failed to place piece: %w", err)
		}

		piece.Taunting = state.Taunting
	}

	if winner := board.Winner(); winner != NoColor {
		return fmt.Errorf("%w: only %s pieces", ErrOneSidedLayout, winner)
	}

	return nil
}
