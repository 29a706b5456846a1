package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
)

var errCellRequired = errors.New("cell is required")

func (that *Server) handleNewGame(ctx context.Context, client *connection, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	snapshot, err := client.session.NewGame(ctx)
	if err != nil {
		log.Warn("failed to start game", "error", err)
		return client.sendError(msg.Action, err, &snapshot)
	}

	log.Info("game started", "session_id", snapshot.SessionID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, client *connection, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	var payload TurnPayload

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return client.sendError(msg.Action, fmt.Errorf("failed to unmarshal payload: %w", err), nil)
	}

	if payload.Cell == nil {
		return client.sendError(msg.Action, errCellRequired, nil)
	}

	snapshot, err := client.session.UserMove(ctx, *payload.Cell)
	if err != nil {
		log.Debug("turn rejected", "cell", *payload.Cell, "error", err)
		return client.sendError(msg.Action, err, &snapshot)
	}

	return nil
}

func unknownActionError(action string) error {
	return fmt.Errorf("%w: %q", apperror.ErrUnknownAction, action)
}
