package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
	"github.com/rocketscienceinc/checkers-backend/internal/checkers"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
)

func (that *Server) handleNewGame(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	game, err := that.gameUseCase.CreateGame(ctx)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendErrorResponse(ctx, conn, msg.Action, "failed to create a new game")
	}

	that.watch(game.ID, conn)

	return that.sendMessage(ctx, conn, msg.Action, Payload{Game: game})
}

func (that *Server) handleWatch(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleWatch")

	payloadReq, err := that.readGamePayload(ctx, conn, msg)
	if payloadReq == nil {
		return err
	}

	game, err := that.gameUseCase.GetGame(ctx, payloadReq.gameID())
	if err != nil {
		if !errors.Is(err, apperror.ErrGameNotFound) {
			log.Error("failed to get game", "gameID", payloadReq.gameID(), "error", err)
		}

		return that.sendErrorResponse(ctx, conn, msg.Action, errorText(err))
	}

	that.watch(game.ID, conn)

	return that.sendMessage(ctx, conn, msg.Action, Payload{Game: game})
}

func (that *Server) handleClick(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	payloadReq, err := that.readGamePayload(ctx, conn, msg)
	if payloadReq == nil {
		return err
	}

	if payloadReq.X == nil || payloadReq.Y == nil {
		return that.sendErrorResponse(ctx, conn, msg.Action, "x and y are required")
	}

	game, outcome, err := that.gameUseCase.Click(ctx, payloadReq.gameID(), *payloadReq.X, *payloadReq.Y)

	return that.publishStep(ctx, conn, msg.Action, game, outcome, err)
}

func (that *Server) handleSelect(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	payloadReq, err := that.readGamePayload(ctx, conn, msg)
	if payloadReq == nil {
		return err
	}

	if payloadReq.Row == nil || payloadReq.Col == nil {
		return that.sendErrorResponse(ctx, conn, msg.Action, "row and col are required")
	}

	game, outcome, err := that.gameUseCase.SelectOrMove(ctx, payloadReq.gameID(), *payloadReq.Row, *payloadReq.Col)

	return that.publishStep(ctx, conn, msg.Action, game, outcome, err)
}

func (that *Server) handleReset(ctx context.Context, conn *websocket.Conn, msg *Message) error {
	log := that.logger.With("method", "handleReset")

	payloadReq, err := that.readGamePayload(ctx, conn, msg)
	if payloadReq == nil {
		return err
	}

	game, err := that.gameUseCase.ResetGame(ctx, payloadReq.gameID())
	if err != nil {
		if !errors.Is(err, apperror.ErrGameNotFound) {
			log.Error("failed to reset game", "gameID", payloadReq.gameID(), "error", err)
		}

		return that.sendErrorResponse(ctx, conn, msg.Action, errorText(err))
	}

	that.watch(game.ID, conn)
	that.broadcast(ctx, msg.Action, Payload{Game: game})

	return nil
}

// publishStep reports a select-or-move step. A step that returned a game is
// broadcast to every watcher, with the step's error if any; a step without a
// game only answers the requester.
func (that *Server) publishStep(ctx context.Context, conn *websocket.Conn, action string, game *entity.Game, outcome checkers.Outcome, err error) error {
	log := that.logger.With("method", "publishStep", "action", action)

	if game == nil {
		if err == nil {
			return nil
		}

		if errorText(err) == "internal error" {
			log.Error("failed to play", "error", err)
		}

		return that.sendErrorResponse(ctx, conn, action, errorText(err))
	}

	payload := Payload{
		Game:    game,
		Outcome: outcome,
	}

	if err != nil {
		payload.Error = errorText(err)
	}

	that.watch(game.ID, conn)
	that.broadcast(ctx, action, payload)

	if game.IsFinished() {
		log.Info("game finished", "gameID", game.ID, "winner", game.Winner)
		that.forget(game.ID)
	}

	return nil
}

// readGamePayload decodes a payload that must name a game. A nil payload means
// the request was answered already; the returned error is the send error.
func (that *Server) readGamePayload(ctx context.Context, conn *websocket.Conn, msg *Message) (*Payload, error) {
	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		if sendErr := that.sendErrorResponse(ctx, conn, msg.Action, "invalid payload"); sendErr != nil {
			return nil, sendErr
		}

		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.gameID() == "" {
		return nil, that.sendErrorResponse(ctx, conn, msg.Action, "game id is required")
	}

	return &payloadReq, nil
}
