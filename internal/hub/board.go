package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"collab-canvas/internal/domain"
)

type boardErrorPayload struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

type clearBoardPayload struct {
	ClearedBy uint      `json:"clearedBy"`
	ClearedAt time.Time `json:"clearedAt"`
}

type historyIntentPayload struct {
	AuthorID uint `json:"authorId"`
}

type cursorMovePayload struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	AuthorID uint    `json:"authorId"`
}

// handleStroke serves draw and erase. On a valid envelope two
// independent tasks are issued: the fire-and-forget persistence write
// and the broadcast to the other room members. The sender renders
// locally and never gets its own echo.
func (h *Hub) handleStroke(c *Client, data json.RawMessage, event string, forceEraser bool) {
	payload, err := h.boardSvc.Sanitize(data, c.identity.ID, forceEraser)
	if err != nil {
		h.sendEvent(c, EventBoardError, boardErrorPayload{Event: event, Message: err.Error()})
		return
	}

	h.boardSvc.PersistAsync(c.roomCode, payload)
	h.broadcast(c.roomCode, event, payload, c)
}

// handleClearBoard is host-gated. On success every stroke record for
// the room is deleted, then all members including the issuer get the
// clear notice so local state resets uniformly.
func (h *Hub) handleClearBoard(c *Client) {
	if c.role != domain.RoleHost {
		h.sendEvent(c, EventBoardError, boardErrorPayload{
			Event:   EventClearBoard,
			Message: "only the host can clear the board",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	if err := h.boardSvc.Clear(ctx, c.roomCode); err != nil {
		// Best-effort durability: never surfaced, and without a
		// completed delete there is nothing to announce.
		logrus.WithError(err).WithField("room_code", c.roomCode).Error("Failed to clear board")
		return
	}

	h.broadcast(c.roomCode, EventClearBoard, clearBoardPayload{
		ClearedBy: c.identity.ID,
		ClearedAt: time.Now().UTC(),
	}, nil)
}

// handleHistoryIntent relays undo/redo. The server keeps no undo
// stack; the signal only tells peers which author acted.
func (h *Hub) handleHistoryIntent(c *Client, event string) {
	h.broadcast(c.roomCode, event, historyIntentPayload{AuthorID: c.identity.ID}, c)
}

// handleCursorMove is a pure relay: never persisted, undecodable
// payloads dropped.
func (h *Hub) handleCursorMove(c *Client, data json.RawMessage) {
	var pos struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &pos); err != nil {
		return
	}
	h.broadcast(c.roomCode, EventCursorMove, cursorMovePayload{
		X:        pos.X,
		Y:        pos.Y,
		AuthorID: c.identity.ID,
	}, c)
}
