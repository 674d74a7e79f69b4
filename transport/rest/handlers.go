package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type gameUseCase interface {
	NewGame(ctx context.Context, mode string, playerFirst bool) (*entity.GameView, error)
	MakeMove(ctx context.Context, row, col int, view *entity.GameView) (*entity.GameView, error)
	GetAIMove(ctx context.Context, view *entity.GameView) (*entity.GameView, error)

	GetGame(ctx context.Context, id string) (*entity.GameView, error)
	EndGame(ctx context.Context, id string) error
}

type newGameRequest struct {
	Mode        string `json:"mode"`
	PlayerFirst *bool  `json:"player_first"`
}

// playerFirst defaults to the human opening when the flag is omitted.
func (that *newGameRequest) playerFirst() bool {
	return that.PlayerFirst == nil || *that.PlayerFirst
}

type moveRequest struct {
	Row  *int             `json:"row"`
	Col  *int             `json:"col"`
	Game *entity.GameView `json:"game"`
}

type aiMoveRequest struct {
	Game *entity.GameView `json:"game"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

func (that *handlers) newGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := that.gameUseCase.NewGame(r.Context(), req.Mode, req.playerFirst())
	if err != nil {
		that.handleError(w, "newGame", err)
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.handleError(w, "makeMove", errors.Join(apperror.ErrInvalidState, err))
		return
	}

	if req.Game == nil {
		writeError(w, http.StatusBadRequest, "game is required")
		return
	}

	if req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, "row and col are required")
		return
	}

	game, err := that.gameUseCase.MakeMove(r.Context(), *req.Row, *req.Col, req.Game)
	if err != nil {
		that.handleError(w, "makeMove", err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *handlers) aiMove(w http.ResponseWriter, r *http.Request) {
	var req aiMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.handleError(w, "aiMove", errors.Join(apperror.ErrInvalidState, err))
		return
	}

	if req.Game == nil {
		writeError(w, http.StatusBadRequest, "game is required")
		return
	}

	game, err := that.gameUseCase.GetAIMove(r.Context(), req.Game)
	if err != nil {
		that.handleError(w, "aiMove", err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.handleError(w, "getGame", err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *handlers) endGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.EndGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.handleError(w, "endGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleError maps use case errors to HTTP statuses. Unexpected errors are logged and hidden.
func (that *handlers) handleError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrOutOfBounds), errors.Is(err, apperror.ErrInvalidState):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrNoLegalMove):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperror.ErrGameNotFound):
		writeError(w, http.StatusNotFound, apperror.ErrGameNotFound.Error())
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
