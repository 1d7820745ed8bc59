package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
	"github.com/rocketscienceinc/checkers-backend/internal/checkers"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, fn func(game *entity.Game) error) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type GameManager struct {
	logger   *slog.Logger
	settings entity.Settings
	layout   *entity.Layout
	gameRepo gameRepo
}

// NewGameManager returns a manager for games on the given board. A non-nil
// layout replaces the standard starting position of new and reset games.
func NewGameManager(logger *slog.Logger, settings entity.Settings, layout *entity.Layout, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger,
		settings: settings,
		layout:   layout,
		gameRepo: gameRepo,
	}
}

func (that *GameManager) CreateGame(ctx context.Context) (*entity.Game, error) {
	log := that.logger.With("method", "CreateGame")

	session, err := that.newSession()
	if err != nil {
		return nil, err
	}

	game := session.Export(uuid.NewString())

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	log.Info("game created", "gameID", game.ID)

	return game, nil
}

// GetGame returns a stored game together with the legal moves of its
// selected piece.
func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	stored, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	session, err := checkers.Restore(that.settings, stored)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", id, err)
	}

	game := session.Export(stored.ID)
	game.UpdatedAt = stored.UpdatedAt

	return game, nil
}

// Click handles a click at window pixel (x, y).
func (that *GameManager) Click(ctx context.Context, id string, x, y int) (*entity.Game, checkers.Outcome, error) {
	pos, ok := that.settings.CellAt(x, y)
	if !ok {
		return nil, checkers.OutcomeNone, fmt.Errorf("%w: pixel (%d, %d)", apperror.ErrOutOfBounds, x, y)
	}

	return that.SelectOrMove(ctx, id, pos.Row, pos.Col)
}

// SelectOrMove applies one select-or-move step to a stored game. The game is
// saved even when the step fails, since a failed step can drop the selection;
// the returned game then comes with the step's error. Finished games are
// deleted.
func (that *GameManager) SelectOrMove(ctx context.Context, id string, row, col int) (*entity.Game, checkers.Outcome, error) {
	log := that.logger.With("method", "SelectOrMove", "gameID", id)

	if !that.settings.InBounds(row, col) {
		return nil, checkers.OutcomeNone, fmt.Errorf("%w: %s", apperror.ErrOutOfBounds, entity.Position{Row: row, Col: col})
	}

	var (
		outcome = checkers.OutcomeNone
		stepErr error
		board   string
	)

	game, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) error {
		if err := game.ConfirmOngoingState(); err != nil {
			return err
		}

		session, err := checkers.Restore(that.settings, game)
		if err != nil {
			return fmt.Errorf("failed to restore game: %w", err)
		}

		outcome, stepErr = session.SelectOrMove(row, col)
		board = session.Board().String()

		*game = *session.Export(id)

		return nil
	})
	if err != nil {
		return nil, checkers.OutcomeNone, fmt.Errorf("failed to update game: %w", err)
	}

	if outcome == checkers.OutcomeMoved {
		log.Debug("move played", "move", game.LastMove, "turn", game.Turn, "board", board)
	}

	if game.IsFinished() {
		log.Info("game finished", "winner", game.Winner)
		that.deleteGame(ctx, game.ID)
	}

	return game, outcome, stepErr
}

// ResetGame puts a game back to its starting position.
func (that *GameManager) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) error {
		session, err := that.newSession()
		if err != nil {
			return err
		}

		*game = *session.Export(id)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	that.logger.Info("game reset", "method", "ResetGame", "gameID", id)

	return game, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "method", "DeleteGame", "gameID", id)

	return nil
}

func (that *GameManager) newSession() (*checkers.Session, error) {
	if that.layout == nil {
		return checkers.NewSession(that.settings), nil
	}

	session, err := checkers.NewSessionFromLayout(that.settings, that.layout)
	if err != nil {
		return nil, fmt.Errorf("failed to start game from layout: %w", err)
	}

	return session, nil
}

func (that *GameManager) deleteGame(ctx context.Context, id string) {
	log := that.logger.With("method", "deleteGame")

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		log.Error("failed to delete game", "gameID", id, "error", err)
		return
	}

	log.Info("game deleted", "gameID", id)
}
