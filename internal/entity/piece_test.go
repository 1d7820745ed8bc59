package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPiece(t *testing.T) {
	// Given: the reference 600x600 window with an 8x8 grid
	settings := DefaultSettings()

	// When: a piece is created in the middle of the board
	piece := NewPiece(settings, 4, 4, White)

	// Then: its pixel centre is derived from the 75px square
	assert.Equal(t, 337, piece.X)
	assert.Equal(t, 337, piece.Y)
	assert.False(t, piece.King)
	assert.Equal(t, Position{Row: 4, Col: 4}, piece.Position())
}

func TestPiece_MoveTo(t *testing.T) {
	// Given: a piece in the corner
	piece := NewPiece(DefaultSettings(), 0, 0, White)

	// When: the piece is moved
	piece.MoveTo(1, 1)

	// Then: coordinates and pixel centre follow
	assert.Equal(t, 1, piece.Row)
	assert.Equal(t, 1, piece.Col)
	assert.Equal(t, 112, piece.X)
	assert.Equal(t, 112, piece.Y)
}

func TestPiece_Promote(t *testing.T) {
	// Given: a man
	piece := NewPiece(DefaultSettings(), 0, 0, White)

	// When: it is promoted twice
	piece.Promote()
	piece.Promote()

	// Then: it stays a king
	assert.True(t, piece.King)
}

func TestColor(t *testing.T) {
	assert.Equal(t, Grey, White.Opponent())
	assert.Equal(t, White, Grey.Opponent())
	assert.Equal(t, NoColor, Color("red").Opponent())
	assert.Equal(t, down, White.Advance())
	assert.Equal(t, up, Grey.Advance())
}

func TestSettings_CellAt(t *testing.T) {
	settings := DefaultSettings()

	t.Run("Translates pixels to squares", func(t *testing.T) {
		pos, ok := settings.CellAt(80, 599)

		assert.True(t, ok)
		assert.Equal(t, Position{Row: 7, Col: 1}, pos)
	})

	t.Run("Rejects points outside the window", func(t *testing.T) {
		for _, point := range [][2]int{{-1, 10}, {10, -1}, {600, 10}, {10, 600}} {
			_, ok := settings.CellAt(point[0], point[1])
			assert.False(t, ok, "point %v", point)
		}
	})
}

func TestSettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())

	settings := DefaultSettings()
	settings.StartRows = 5
	assert.ErrorIs(t, settings.Validate(), ErrInvalidSettings)

	settings = DefaultSettings()
	settings.Width = 4
	assert.ErrorIs(t, settings.Validate(), ErrInvalidSettings)
}
