package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
	"github.com/rocketscienceinc/checkers-backend/internal/checkers"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
)

const writeTimeout = 5 * time.Second

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is used for requests and responses alike. Requests name the game
// by id and carry either pixel or grid coordinates.
type Payload struct {
	Game    *entity.Game     `json:"game,omitempty"`
	X       *int             `json:"x,omitempty"`
	Y       *int             `json:"y,omitempty"`
	Row     *int             `json:"row,omitempty"`
	Col     *int             `json:"col,omitempty"`
	Outcome checkers.Outcome `json:"outcome,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func (that *Payload) gameID() string {
	if that.Game == nil {
		return ""
	}

	return that.Game.ID
}

// clientErrors are reported to clients by their own message.
var clientErrors = []error{
	apperror.ErrGameNotFound,
	apperror.ErrGameFinished,
	apperror.ErrOutOfBounds,
	apperror.ErrInvalidSelection,
	apperror.ErrIllegalDestination,
	apperror.ErrNoSelection,
	apperror.ErrTooManyConflicts,
}

func errorText(err error) string {
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "internal error"
}

func (that *Server) sendMessage(ctx context.Context, conn *websocket.Conn, action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err = wsjson.Write(ctx, conn, Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(ctx context.Context, conn *websocket.Conn, action, text string) error {
	return that.sendMessage(ctx, conn, action, Payload{Error: text})
}
