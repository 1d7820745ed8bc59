package checkers

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
)

// Outcome tells what a SelectOrMove request ended up doing.
type Outcome string

const (
	OutcomeNone     Outcome = "none"
	OutcomeSelected Outcome = "selected"
	OutcomeMoved    Outcome = "moved"
)

var ErrInvalidTurn = errors.New("invalid turn")

// Session is one game in progress: whose turn it is, the selected piece and
// the legal-move map of that piece. A piece with no legal moves can still be
// selected; its move map is then empty. It is not safe for concurrent use.
type Session struct {
	settings entity.Settings
	board    *entity.Board
	turn     entity.Color
	selected *entity.Piece
	moves    entity.Moves
	lastMove *entity.Move
}

func NewSession(settings entity.Settings) *Session {
	session := &Session{settings: settings}
	session.Reset()

	return session
}

// NewSessionFromLayout starts a session on a custom position.
func NewSessionFromLayout(settings entity.Settings, layout *entity.Layout) (*Session, error) {
	session := NewSession(settings)

	if err := layout.Setup(session.board); err != nil {
		return nil, fmt.Errorf("failed to set up layout: %w", err)
	}

	session.turn = layout.Turn

	return session, nil
}

// Reset starts a new game on the standard layout with grey to move.
func (that *Session) Reset() {
	that.board = entity.NewBoard(that.settings)
	that.turn = entity.Grey
	that.lastMove = nil
	that.deselect()
}

func (that *Session) Board() *entity.Board {
	return that.board
}

func (that *Session) Turn() entity.Color {
	return that.turn
}

func (that *Session) Selected() *entity.Piece {
	return that.selected
}

// ValidMoves returns a copy of the legal-move map of the selected piece.
func (that *Session) ValidMoves() entity.Moves {
	return that.moves.Clone()
}

func (that *Session) LastMove() *entity.Move {
	return that.lastMove
}

func (that *Session) Winner() entity.Color {
	return that.board.Winner()
}

// SelectOrMove handles one click on a square. With a piece selected it tries
// to move there; if that is not a legal move the selection is dropped and the
// same square is tried as a fresh selection.
func (that *Session) SelectOrMove(row, col int) (Outcome, error) {
	if that.Winner() != entity.NoColor {
		return OutcomeNone, apperror.ErrGameFinished
	}

	if !that.settings.InBounds(row, col) {
		return OutcomeNone, fmt.Errorf("%w: %s", apperror.ErrOutOfBounds, entity.Position{Row: row, Col: col})
	}

	if that.selected != nil {
		err := that.CommitMove(row, col)
		if err == nil {
			return OutcomeMoved, nil
		}

		if !errors.Is(err, apperror.ErrIllegalDestination) {
			return OutcomeNone, err
		}

		that.deselect()
	}

	if err := that.TrySelect(row, col); err != nil {
		return OutcomeNone, err
	}

	return OutcomeSelected, nil
}

// TrySelect selects the piece on a square if it belongs to the side to move.
func (that *Session) TrySelect(row, col int) error {
	piece, err := that.board.PieceAt(row, col)
	if err != nil {
		return err
	}

	if piece == nil {
		return fmt.Errorf("%w: %s is empty", apperror.ErrInvalidSelection, entity.Position{Row: row, Col: col})
	}

	if piece.Color != that.turn {
		return fmt.Errorf("%w: %s piece on %s, %s to move", apperror.ErrInvalidSelection, piece.Color, piece.Position(), that.turn)
	}

	that.selected = piece
	that.moves = that.board.LegalMoves(piece)

	return nil
}

// CommitMove plays the selected piece to an empty square of its legal-move
// map, removes the captured pieces and passes the turn.
func (that *Session) CommitMove(row, col int) error {
	if that.selected == nil {
		return apperror.ErrNoSelection
	}

	to := entity.Position{Row: row, Col: col}

	occupant, err := that.board.PieceAt(row, col)
	if err != nil {
		return err
	}

	if occupant != nil {
		return fmt.Errorf("%w: %s is occupied", apperror.ErrIllegalDestination, to)
	}

	captured, ok := that.moves[to]
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrIllegalDestination, to)
	}

	piece := that.selected
	from := piece.Position()
	wasKing := piece.King

	if err = that.board.ApplyMove(piece, row, col); err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	that.board.RemovePieces(captured)

	that.lastMove = &entity.Move{
		From:     from,
		To:       to,
		Captures: entity.Positions(captured),
		Promoted: piece.King && !wasKing,
	}

	that.switchTurn()

	return nil
}

func (that *Session) switchTurn() {
	that.deselect()
	that.turn = that.turn.Opponent()
}

func (that *Session) deselect() {
	that.selected = nil
	that.moves = make(entity.Moves)
}

// Export captures the session as a game record.
func (that *Session) Export(id string) *entity.Game {
	game := &entity.Game{
		ID:        id,
		Status:    entity.StatusOngoing,
		Turn:      that.turn,
		Winner:    that.Winner(),
		LastMove:  that.lastMove,
		Left:      map[entity.Color]int{},
		Kings:     map[entity.Color]int{},
		UpdatedAt: time.Now().UTC(),
	}

	if game.Winner != entity.NoColor {
		game.Status = entity.StatusFinished
	}

	for _, piece := range that.board.Pieces() {
		game.Pieces = append(game.Pieces, piece.State())
	}

	for _, color := range []entity.Color{entity.White, entity.Grey} {
		game.Left[color] = that.board.Left(color)
		game.Kings[color] = that.board.Kings(color)
	}

	if that.selected != nil {
		selected := that.selected.Position()
		game.Selected = &selected
		game.Moves = that.moves.Destinations()
	}

	return game
}

// Restore rebuilds a session from a game record. The legal-move map of the
// selected piece is computed again rather than read from the record.
func Restore(settings entity.Settings, game *entity.Game) (*Session, error) {
	if !game.Turn.Valid() {
		return nil, fmt.Errorf("%w: turn %q", ErrInvalidTurn, game.Turn)
	}

	board := entity.NewEmptyBoard(settings)
	if err := board.Restore(game.Pieces, game.Left, game.Kings); err != nil {
		return nil, fmt.Errorf("failed to restore board: %w", err)
	}

	session := &Session{
		settings: settings,
		board:    board,
		turn:     game.Turn,
		lastMove: game.LastMove,
	}
	session.deselect()

	if game.Selected != nil {
		if err := session.TrySelect(game.Selected.Row, game.Selected.Col); err != nil {
			return nil, fmt.Errorf("failed to restore selection: %w", err)
		}
	}

	return session, nil
}
