package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

var (
	ErrUnknownGameStatus = errors.New("unknown game status")
	ErrUnknownColor      = errors.New("unknown color")
	ErrOneSidedLayout    = errors.New("layout has pieces of one color only")
)

// Game is the stored record of one game. Moves lists the destinations of the
// selected piece; it is filled for clients only and never stored.
type Game struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	Turn      Color         `json:"turn"`
	Winner    Color         `json:"winner,omitempty"`
	Selected  *Position     `json:"selected,omitempty"`
	Moves     []Destination `json:"moves,omitempty"`
	LastMove  *Move         `json:"last_move,omitempty"`
	Pieces    []PieceState  `json:"pieces"`
	Left      map[Color]int `json:"left"`
	Kings     map[Color]int `json:"kings"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}
