package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
	"github.com/rocketscienceinc/checkers-backend/internal/checkers"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
)

type clickRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type selectRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type gameResponse struct {
	Game    *entity.Game     `json:"game,omitempty"`
	Outcome checkers.Outcome `json:"outcome,omitempty"`
	Error   string           `json:"error,omitempty"`
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, "handleCreateGame", nil, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, gameResponse{Game: game})
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "handleGetGame", nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.X == nil || req.Y == nil {
		that.writeJSON(w, http.StatusBadRequest, gameResponse{Error: "x and y are required"})
		return
	}

	game, outcome, err := that.gameUseCase.Click(r.Context(), r.PathValue("id"), *req.X, *req.Y)
	that.writeStep(w, "handleClick", game, outcome, err)
}

func (that *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil || req.Col == nil {
		that.writeJSON(w, http.StatusBadRequest, gameResponse{Error: "row and col are required"})
		return
	}

	game, outcome, err := that.gameUseCase.SelectOrMove(r.Context(), r.PathValue("id"), *req.Row, *req.Col)
	that.writeStep(w, "handleSelect", game, outcome, err)
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.ResetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, "handleReset", nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game})
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.DeleteGame(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, "handleDeleteGame", nil, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) writeStep(w http.ResponseWriter, method string, game *entity.Game, outcome checkers.Outcome, err error) {
	if err != nil {
		that.writeError(w, method, game, err)
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{Game: game, Outcome: outcome})
}

// writeError answers with the status of a known error. The game, when there
// is one, is the state stored after the failed request.
func (that *Server) writeError(w http.ResponseWriter, method string, game *entity.Game, err error) {
	status, text := errorStatus(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
	}

	that.writeJSON(w, status, gameResponse{Game: game, Error: text})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, response gameResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func errorStatus(err error) (int, string) {
	statuses := []struct {
		err    error
		status int
	}{
		{apperror.ErrOutOfBounds, http.StatusBadRequest},
		{apperror.ErrGameNotFound, http.StatusNotFound},
		{apperror.ErrGameFinished, http.StatusConflict},
		{apperror.ErrTooManyConflicts, http.StatusConflict},
		{apperror.ErrInvalidSelection, http.StatusUnprocessableEntity},
		{apperror.ErrIllegalDestination, http.StatusUnprocessableEntity},
		{apperror.ErrNoSelection, http.StatusUnprocessableEntity},
	}

	for _, known := range statuses {
		if errors.Is(err, known.err) {
			return known.status, known.err.Error()
		}
	}

	return http.StatusInternalServerError, "internal error"
}
