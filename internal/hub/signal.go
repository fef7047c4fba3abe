package hub

import (
	"encoding/json"

	"collab-canvas/internal/domain"
)

// Screen-share signaling. The hub routes envelopes by connection id or
// room and never looks inside the negotiation payloads. Malformed or
// untargetable envelopes are dropped silently: the client-side
// negotiation logic tolerates losses.

type screenAvailablePayload struct {
	From string          `json:"from"`
	User domain.Identity `json:"user"`
}

type screenStoppedPayload struct {
	From string `json:"from"`
}

type screenRequestInbound struct {
	TargetConnID string `json:"targetConnId"`
}

type screenRequestPayload struct {
	From string `json:"from"`
}

// handleScreenStart marks the connection as sharing and announces the
// sharer's connection id to the rest of the room.
func (h *Hub) handleScreenStart(c *Client) {
	c.sharing = true
	h.broadcast(c.roomCode, EventScreenAvailable, screenAvailablePayload{
		From: c.connID,
		User: c.identity,
	}, c)
}

// handleScreenStop clears the sharing flag and tells the room. Also
// triggered implicitly when a sharing connection leaves.
func (h *Hub) handleScreenStop(c *Client) {
	if !c.sharing {
		return
	}
	c.sharing = false
	h.broadcast(c.roomCode, EventScreenStopped, screenStoppedPayload{From: c.connID}, c)
}

// handleScreenRequest routes a viewer's request directly to the
// sharer's connection so the sharer can open a one-to-one offer back.
func (h *Hub) handleScreenRequest(c *Client, data json.RawMessage) {
	var req screenRequestInbound
	if err := json.Unmarshal(data, &req); err != nil || req.TargetConnID == "" {
		return
	}
	h.sendTo(req.TargetConnID, EventScreenRequest, screenRequestPayload{From: c.connID})
}

// handleScreenSignal routes offer/answer/ice envelopes to their target
// connection with from rewritten to the sender. The payload passes
// through opaque.
func (h *Hub) handleScreenSignal(c *Client, event string, data json.RawMessage) {
	var msg domain.SignalMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.To == "" || len(msg.Payload) == 0 {
		return
	}
	msg.From = c.connID
	h.sendTo(msg.To, event, msg)
}
