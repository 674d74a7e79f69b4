package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coder/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const writeTimeout = 5 * time.Second

const (
	actionGameNew    = "game:new"
	actionGameMove   = "game:move"
	actionGameAIMove = "game:ai-move"
	actionGameGet    = "game:get"
	actionGameLeave  = "game:leave"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries both requests and responses; only the fields an action needs are set.
type Payload struct {
	Game *entity.GameView `json:"game,omitempty"`

	Mode        string `json:"mode,omitempty"`
	PlayerFirst *bool  `json:"player_first,omitempty"`

	Row *int `json:"row,omitempty"`
	Col *int `json:"col,omitempty"`

	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (that *Server) sendMessage(ctx context.Context, conn *websocket.Conn, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	responseBytes, err := json.Marshal(Message{
		Action:  action,
		Payload: payloadBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err = conn.Write(ctx, websocket.MessageText, responseBytes); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(ctx context.Context, conn *websocket.Conn, action, errorMsg string) error {
	if err := that.sendMessage(ctx, conn, action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
