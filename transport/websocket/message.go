package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

const (
	actionGameNew   = "game:new"
	actionGameTurn  = "game:turn"
	actionGameState = "game:state"

	writeTimeout = 10 * time.Second
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TurnPayload struct {
	Cell *int `json:"cell"`
}

type ErrorPayload struct {
	Error string            `json:"error"`
	State *usecase.Snapshot `json:"state,omitempty"`
}

// connection serializes writes: state pushes arrive from the computer's goroutine
// while the read loop answers requests.
type connection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	session *usecase.Session
}

func (that *connection) send(action string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) sendError(action string, cause error, state *usecase.Snapshot) error {
	return that.send(action, ErrorPayload{Error: cause.Error(), State: state})
}
