package hub

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

type sendMessageRequest struct {
	RoomCode string `json:"roomCode"`
	Text     string `json:"text"`
}

// handleSendMessage relays chat. The connection's joined room is
// authoritative; the roomCode field of the payload is ignored. Unlike
// strokes the sender has no local pre-render, so the broadcast includes
// it. Persistence is issued as its own best-effort task.
func (h *Hub) handleSendMessage(c *Client, data json.RawMessage) {
	var req sendMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}

	msg, ok := h.chatSvc.Prepare(c.identity, c.roomCode, req.Text)
	if !ok {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		if err := h.chatSvc.Append(ctx, msg); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"room_code": msg.RoomCode,
				"user_id":   msg.Author.ID,
			}).Error("Failed to persist chat message")
		}
	}()

	h.broadcast(c.roomCode, EventChatMessage, msg, nil)
}
