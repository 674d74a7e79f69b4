package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/coder/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleNewGame")

	var payloadReq Payload
	if err := unmarshalPayload(msg, &payloadReq); err != nil {
		log.Warn("failed to unmarshal payload", "error", err)
		return that.sendErrorResponse(ctx, conn, msg.Action, "invalid payload")
	}

	// the human opens unless the client says otherwise
	playerFirst := payloadReq.PlayerFirst == nil || *payloadReq.PlayerFirst

	game, err := that.gameUseCase.NewGame(ctx, payloadReq.Mode, playerFirst)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendErrorResponse(ctx, conn, msg.Action, errorMessage(err, "failed to create a new game"))
	}

	log.Info("game created", "gameID", game.ID, "mode", game.Mode)

	return that.sendMessage(ctx, conn, msg.Action, Payload{Game: game})
}

func (that *Server) handleGameMove(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleGameMove")

	var payloadReq Payload
	if err := unmarshalPayload(msg, &payloadReq); err != nil {
		log.Warn("failed to unmarshal payload", "error", err)
		return that.sendErrorResponse(ctx, conn, msg.Action, "invalid payload")
	}

	if payloadReq.Game == nil {
		return that.sendErrorResponse(ctx, conn, msg.Action, "Game is required")
	}

	if payloadReq.Row == nil || payloadReq.Col == nil {
		return that.sendErrorResponse(ctx, conn, msg.Action, "Row and col are required")
	}

	game, err := that.gameUseCase.MakeMove(ctx, *payloadReq.Row, *payloadReq.Col, payloadReq.Game)
	if err != nil {
		log.Warn("failed to make move", "gameID", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(ctx, conn, msg.Action, errorMessage(err, "failed to make move"))
	}

	return that.sendMessage(ctx, conn, msg.Action, Payload{Game: game})
}

func (that *Server) handleAIMove(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleAIMove")

	var payloadReq Payload
	if err := unmarshalPayload(msg, &payloadReq); err != nil {
		log.Warn("failed to unmarshal payload", "error", err)
		return that.sendErrorResponse(ctx, conn, msg.Action, "invalid payload")
	}

	if payloadReq.Game == nil {
		return that.sendErrorResponse(ctx, conn, msg.Action, "Game is required")
	}

	game, err := that.gameUseCase.GetAIMove(ctx, payloadReq.Game)
	if err != nil {
		log.Warn("failed to make AI move", "gameID", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(ctx, conn, msg.Action, errorMessage(err, "failed to make AI move"))
	}

	return that.sendMessage(ctx, conn, msg.Action, Payload{Game: game})
}

func (that *Server) handleGetGame(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleGetGame")

	var payloadReq Payload
	if err := unmarshalPayload(msg, &payloadReq); err != nil || payloadReq.ID == "" {
		return that.sendErrorResponse(ctx, conn, msg.Action, "Game ID is required")
	}

	game, err := that.gameUseCase.GetGame(ctx, payloadReq.ID)
	if err != nil {
		log.Warn("failed to get game", "gameID", payloadReq.ID, "error", err)
		return that.sendErrorResponse(ctx, conn, msg.Action, errorMessage(err, "failed to get the game"))
	}

	return that.sendMessage(ctx, conn, msg.Action, Payload{Game: game})
}

func (that *Server) handleGameLeave(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleGameLeave")

	var payloadReq Payload
	if err := unmarshalPayload(msg, &payloadReq); err != nil || payloadReq.ID == "" {
		return that.sendErrorResponse(ctx, conn, msg.Action, "Game ID is required")
	}

	if err := that.gameUseCase.EndGame(ctx, payloadReq.ID); err != nil {
		log.Warn("failed to end game", "gameID", payloadReq.ID, "error", err)
		return that.sendErrorResponse(ctx, conn, msg.Action, errorMessage(err, "failed to end the game"))
	}

	log.Info("player left", "gameID", payloadReq.ID)

	return that.sendMessage(ctx, conn, msg.Action, Payload{ID: payloadReq.ID})
}

func unmarshalPayload(msg *Message, payload *Payload) error {
	if len(msg.Payload) == 0 {
		return nil
	}

	return json.Unmarshal(msg.Payload, payload)
}

// errorMessage exposes rule violations to the client and hides everything else behind fallback.
func errorMessage(err error, fallback string) string {
	for _, known := range []error{
		apperror.ErrOutOfBounds,
		apperror.ErrCellOccupied,
		apperror.ErrNoLegalMove,
		apperror.ErrInvalidState,
		apperror.ErrGameNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return fallback
}
