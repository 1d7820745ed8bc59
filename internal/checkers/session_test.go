package checkers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
)

func newLayoutSession(t *testing.T, turn entity.Color, pieces ...entity.PieceState) *Session {
	t.Helper()

	session, err := NewSessionFromLayout(entity.DefaultSettings(), &entity.Layout{Turn: turn, Pieces: pieces})
	require.NoError(t, err)

	return session
}

func TestNewSession(t *testing.T) {
	// When: a new session is created
	session := NewSession(entity.DefaultSettings())

	// Then: grey moves first and nothing is selected
	assert.Equal(t, entity.Grey, session.Turn())
	assert.Nil(t, session.Selected())
	assert.Empty(t, session.ValidMoves())
	assert.Nil(t, session.LastMove())
	assert.Equal(t, entity.NoColor, session.Winner())
	assert.Len(t, session.Board().Pieces(), 24)
}

func TestSession_TrySelect(t *testing.T) {
	t.Run("Selects a piece of the side to move", func(t *testing.T) {
		// Given: a new game
		session := NewSession(entity.DefaultSettings())

		// When: grey selects its man on (5, 2)
		err := session.TrySelect(5, 2)

		// Then: the piece and its moves are remembered
		require.NoError(t, err)
		require.NotNil(t, session.Selected())
		assert.Equal(t, entity.Position{Row: 5, Col: 2}, session.Selected().Position())
		assert.Equal(t, []entity.Destination{
			{To: entity.Position{Row: 4, Col: 1}, Captures: []entity.Position{}},
			{To: entity.Position{Row: 4, Col: 3}, Captures: []entity.Position{}},
		}, session.ValidMoves().Destinations())
	})

	t.Run("Selects a blocked piece with an empty move map", func(t *testing.T) {
		session := NewSession(entity.DefaultSettings())

		err := session.TrySelect(6, 1)

		require.NoError(t, err)
		require.NotNil(t, session.Selected())
		assert.Equal(t, entity.Position{Row: 6, Col: 1}, session.Selected().Position())
		assert.Empty(t, session.ValidMoves())
	})

	t.Run("Rejects an empty square", func(t *testing.T) {
		session := NewSession(entity.DefaultSettings())

		err := session.TrySelect(4, 1)

		require.ErrorIs(t, err, apperror.ErrInvalidSelection)
		assert.Nil(t, session.Selected())
		assert.Empty(t, session.ValidMoves())
	})

	t.Run("Rejects a piece of the other side", func(t *testing.T) {
		session := NewSession(entity.DefaultSettings())

		err := session.TrySelect(2, 1)

		require.ErrorIs(t, err, apperror.ErrInvalidSelection)
		assert.Nil(t, session.Selected())
	})

	t.Run("Rejects a square outside the grid", func(t *testing.T) {
		session := NewSession(entity.DefaultSettings())

		require.ErrorIs(t, session.TrySelect(8, 0), apperror.ErrOutOfBounds)
	})
}

func TestSession_CommitMove(t *testing.T) {
	t.Run("Moves the selected piece and passes the turn", func(t *testing.T) {
		// Given: grey has selected (5, 2)
		session := NewSession(entity.DefaultSettings())
		require.NoError(t, session.TrySelect(5, 2))
		piece := session.Selected()

		// When: it moves to (4, 3)
		err := session.CommitMove(4, 3)

		// Then: the board, the turn and the selection are updated
		require.NoError(t, err)
		moved, err := session.Board().PieceAt(4, 3)
		require.NoError(t, err)
		assert.Same(t, piece, moved)
		assert.Equal(t, entity.White, session.Turn())
		assert.Nil(t, session.Selected())
		assert.Empty(t, session.ValidMoves())
		assert.Equal(t, &entity.Move{
			From:     entity.Position{Row: 5, Col: 2},
			To:       entity.Position{Row: 4, Col: 3},
			Captures: []entity.Position{},
		}, session.LastMove())
	})

	t.Run("Requires a selection", func(t *testing.T) {
		session := NewSession(entity.DefaultSettings())

		require.ErrorIs(t, session.CommitMove(4, 3), apperror.ErrNoSelection)
	})

	t.Run("Rejects a square outside the legal moves", func(t *testing.T) {
		// Given: grey has selected (5, 2)
		session := NewSession(entity.DefaultSettings())
		require.NoError(t, session.TrySelect(5, 2))

		// When: it tries to move two rows ahead
		err := session.CommitMove(3, 2)

		// Then: the move is refused and nothing changes
		require.ErrorIs(t, err, apperror.ErrIllegalDestination)
		assert.NotNil(t, session.Selected())
		assert.Equal(t, entity.Grey, session.Turn())

		piece, err := session.Board().PieceAt(3, 2)
		require.NoError(t, err)
		assert.Nil(t, piece)
	})

	t.Run("Rejects an occupied square", func(t *testing.T) {
		session := NewSession(entity.DefaultSettings())
		require.NoError(t, session.TrySelect(5, 2))

		require.ErrorIs(t, session.CommitMove(6, 1), apperror.ErrIllegalDestination)
	})

	t.Run("Removes captured pieces", func(t *testing.T) {
		// Given: a white man that can jump two grey men
		session := newLayoutSession(t, entity.White,
			entity.PieceState{Row: 2, Col: 1, Color: entity.White},
			entity.PieceState{Row: 3, Col: 2, Color: entity.Grey},
			entity.PieceState{Row: 5, Col: 4, Color: entity.Grey},
			entity.PieceState{Row: 7, Col: 0, Color: entity.Grey},
		)
		require.NoError(t, session.TrySelect(2, 1))

		// When: the chain is played
		err := session.CommitMove(6, 5)

		// Then: both jumped men are gone
		require.NoError(t, err)
		assert.Equal(t, 1, session.Board().Left(entity.Grey))
		assert.Equal(t, []entity.Position{{Row: 3, Col: 2}, {Row: 5, Col: 4}}, session.LastMove().Captures)

		for _, pos := range session.LastMove().Captures {
			piece, err := session.Board().PieceAt(pos.Row, pos.Col)
			require.NoError(t, err)
			assert.Nil(t, piece)
		}

		assert.Equal(t, entity.Grey, session.Turn())
		assert.Equal(t, entity.NoColor, session.Winner())
	})
}

func TestSession_SelectOrMove(t *testing.T) {
	t.Run("Select then move", func(t *testing.T) {
		session := NewSession(entity.DefaultSettings())

		outcome, err := session.SelectOrMove(5, 0)
		require.NoError(t, err)
		assert.Equal(t, OutcomeSelected, outcome)

		outcome, err = session.SelectOrMove(4, 1)
		require.NoError(t, err)
		assert.Equal(t, OutcomeMoved, outcome)
		assert.Equal(t, entity.White, session.Turn())
	})

	t.Run("Illegal destination reselects the clicked square", func(t *testing.T) {
		// Given: grey has selected (5, 0)
		session := NewSession(entity.DefaultSettings())
		_, err := session.SelectOrMove(5, 0)
		require.NoError(t, err)

		// When: grey clicks another of its own men
		outcome, err := session.SelectOrMove(5, 2)

		// Then: that man becomes the selection
		require.NoError(t, err)
		assert.Equal(t, OutcomeSelected, outcome)
		assert.Equal(t, entity.Position{Row: 5, Col: 2}, session.Selected().Position())
		assert.Len(t, session.ValidMoves(), 2)
	})

	t.Run("Illegal empty destination clears the selection", func(t *testing.T) {
		// Given: grey has selected (5, 0)
		session := NewSession(entity.DefaultSettings())
		_, err := session.SelectOrMove(5, 0)
		require.NoError(t, err)

		// When: grey clicks an empty square that is not a legal move
		outcome, err := session.SelectOrMove(3, 4)

		// Then: nothing is selected any more
		require.ErrorIs(t, err, apperror.ErrInvalidSelection)
		assert.Equal(t, OutcomeNone, outcome)
		assert.Nil(t, session.Selected())
		assert.Empty(t, session.ValidMoves())
		assert.Equal(t, entity.Grey, session.Turn())
	})

	t.Run("Out of bounds leaves the state alone", func(t *testing.T) {
		session := NewSession(entity.DefaultSettings())
		_, err := session.SelectOrMove(5, 0)
		require.NoError(t, err)

		outcome, err := session.SelectOrMove(-1, 3)

		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
		assert.Equal(t, OutcomeNone, outcome)
		assert.NotNil(t, session.Selected())
	})

	t.Run("Out of turn selection is refused", func(t *testing.T) {
		session := NewSession(entity.DefaultSettings())

		outcome, err := session.SelectOrMove(2, 1)

		require.ErrorIs(t, err, apperror.ErrInvalidSelection)
		assert.Equal(t, OutcomeNone, outcome)
	})

	t.Run("Winning capture finishes the game", func(t *testing.T) {
		// Given: grey can take the last white man
		session := newLayoutSession(t, entity.Grey,
			entity.PieceState{Row: 4, Col: 3, Color: entity.Grey},
			entity.PieceState{Row: 3, Col: 2, Color: entity.White},
		)

		// When: grey jumps
		_, err := session.SelectOrMove(4, 3)
		require.NoError(t, err)
		outcome, err := session.SelectOrMove(2, 1)

		// Then: grey wins and further clicks are refused
		require.NoError(t, err)
		assert.Equal(t, OutcomeMoved, outcome)
		assert.Equal(t, entity.Grey, session.Winner())

		_, err = session.SelectOrMove(2, 1)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Reaching the far row promotes", func(t *testing.T) {
		session := newLayoutSession(t, entity.Grey,
			entity.PieceState{Row: 1, Col: 2, Color: entity.Grey},
			entity.PieceState{Row: 6, Col: 7, Color: entity.White},
		)

		_, err := session.SelectOrMove(1, 2)
		require.NoError(t, err)
		_, err = session.SelectOrMove(0, 3)
		require.NoError(t, err)

		assert.True(t, session.LastMove().Promoted)
		assert.Equal(t, 1, session.Board().Kings(entity.Grey))
	})
}

func TestSession_Reset(t *testing.T) {
	session := NewSession(entity.DefaultSettings())
	_, err := session.SelectOrMove(5, 0)
	require.NoError(t, err)
	_, err = session.SelectOrMove(4, 1)
	require.NoError(t, err)

	session.Reset()

	assert.Equal(t, entity.Grey, session.Turn())
	assert.Nil(t, session.LastMove())
	assert.Equal(t, entity.NewBoard(entity.DefaultSettings()).String(), session.Board().String())
}

func TestSession_ExportRestore(t *testing.T) {
	// Given: a session with a selected piece after one move
	session := NewSession(entity.DefaultSettings())
	_, err := session.SelectOrMove(5, 2)
	require.NoError(t, err)
	_, err = session.SelectOrMove(4, 3)
	require.NoError(t, err)
	_, err = session.SelectOrMove(2, 3)
	require.NoError(t, err)

	// When: it is exported and restored
	game := session.Export("123")
	restored, err := Restore(entity.DefaultSettings(), game)

	// Then: the record describes the position
	require.NoError(t, err)
	assert.Equal(t, "123", game.ID)
	assert.Equal(t, entity.StatusOngoing, game.Status)
	assert.Equal(t, entity.White, game.Turn)
	assert.Equal(t, &entity.Position{Row: 2, Col: 3}, game.Selected)
	assert.Len(t, game.Pieces, 24)
	assert.Equal(t, 12, game.Left[entity.White])

	// Then: the restored session continues from the same state
	assert.Equal(t, session.Board().String(), restored.Board().String())
	assert.Equal(t, session.Turn(), restored.Turn())
	assert.Equal(t, session.ValidMoves().Destinations(), restored.ValidMoves().Destinations())
	assert.Equal(t, session.LastMove(), restored.LastMove())

	t.Run("Unknown turn is rejected", func(t *testing.T) {
		broken := *game
		broken.Turn = "red"

		_, err := Restore(entity.DefaultSettings(), &broken)

		require.ErrorIs(t, err, ErrInvalidTurn)
	})

	t.Run("Selection of the wrong side is rejected", func(t *testing.T) {
		broken := *game
		broken.Selected = &entity.Position{Row: 5, Col: 0}

		_, err := Restore(entity.DefaultSettings(), &broken)

		require.ErrorIs(t, err, apperror.ErrInvalidSelection)
	})
}
