package hub

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// handleFileShare relays upload metadata. The announcement goes to
// every other member and is echoed back to the sender, so all clients
// update their file lists through the same path.
func (h *Hub) handleFileShare(c *Client, data json.RawMessage) {
	ann, err := h.fileSvc.Prepare(data, c.identity)
	if err != nil {
		h.sendEvent(c, EventBoardError, boardErrorPayload{Event: EventFileShare, Message: err.Error()})
		return
	}
	h.broadcast(c.roomCode, EventFileShared, ann, nil)
}

// handleFileListRequest re-reads the stored metadata and answers only
// the requester. Fallback path, not the primary listing mechanism.
func (h *Hub) handleFileListRequest(c *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	list, err := h.fileSvc.List(ctx, c.roomCode)
	if err != nil {
		logrus.WithError(err).WithField("room_code", c.roomCode).Error("Failed to list room files")
		return
	}
	h.sendEvent(c, EventFileList, list)
}
