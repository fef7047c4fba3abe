package hub

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/service"
)

// lookupTimeout bounds the store reads done during a join.
const lookupTimeout = 5 * time.Second

type joinRoomRequest struct {
	RoomCode string `json:"roomCode"`
}

type roomJoinedPayload struct {
	RoomCode    string `json:"roomCode"`
	Role        string `json:"role"`
	OnlineCount int    `json:"onlineCount"`
}

type presenceChangePayload struct {
	User        domain.Identity   `json:"user"`
	OnlineUsers []domain.Identity `json:"onlineUsers"`
}

type roomErrorPayload struct {
	Message string `json:"message"`
}

// handleJoinRoom runs the join sequence: membership authorization
// against the external room store, replay of chat history and canvas,
// presence publication. A connection holding another room leaves it
// first; a connection never belongs to two rooms.
func (h *Hub) handleJoinRoom(c *Client, data json.RawMessage) {
	var req joinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RoomCode == "" {
		h.sendEvent(c, EventRoomError, roomErrorPayload{Message: "room code is required"})
		return
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"conn_id":   c.connID,
		"user_id":   c.identity.ID,
		"room_code": req.RoomCode,
	})

	if c.roomCode != "" {
		h.leaveRoom(c, "rejoin")
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	// Membership was decided by the REST layer; this only reads it.
	// Role is a snapshot for this join.
	_, role, err := h.roomSvc.Authorize(ctx, req.RoomCode, c.identity.ID)
	if err != nil {
		h.sendEvent(c, EventRoomError, roomErrorPayload{Message: joinErrorMessage(err)})
		logCtx.WithError(err).Warn("Join rejected")
		return
	}

	// Replay data is loaded before the connection becomes visible to
	// the room, so no live event can interleave ahead of it.
	history, err := h.chatSvc.History(ctx, req.RoomCode)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load chat history for join")
		history = nil
	}
	replay, err := h.boardSvc.Replay(ctx, req.RoomCode)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load canvas replay for join")
		replay = nil
	}
	if history == nil {
		history = []domain.ChatMessage{}
	}
	if replay == nil {
		replay = []domain.StrokePayload{}
	}

	// Attach under the write lock and queue the replay frames while
	// holding it: any broadcast orders either before the attach (this
	// connection is not yet a member) or after the queued replay,
	// because broadcasts enumerate recipients under the same lock.
	h.mu.Lock()
	if h.rooms[req.RoomCode] == nil {
		h.rooms[req.RoomCode] = make(map[*Client]bool)
	}
	h.rooms[req.RoomCode][c] = true
	c.roomCode = req.RoomCode
	c.role = role
	presence := h.presenceLocked(req.RoomCode)

	queueEvent(c, EventRoomJoined, roomJoinedPayload{
		RoomCode:    req.RoomCode,
		Role:        role,
		OnlineCount: len(presence),
	})
	queueEvent(c, EventChatHistory, history)
	queueEvent(c, EventPresenceSnapshot, presence)
	queueEvent(c, EventCanvasRestore, replay)
	h.mu.Unlock()

	h.broadcast(req.RoomCode, EventUserJoined, presenceChangePayload{
		User:        c.identity,
		OnlineUsers: presence,
	}, c)

	logCtx.WithField("role", role).Info("Client joined room")
}

// leaveRoom detaches the connection from its room, recomputes presence
// from the remaining members and notifies them. It also ends any
// in-progress screen share and drops the stale membership row off the
// hot path. Safe to call when no room is held.
func (h *Hub) leaveRoom(c *Client, reason string) {
	roomCode := c.roomCode
	if roomCode == "" {
		return
	}

	if c.sharing {
		c.sharing = false
		h.broadcast(roomCode, EventScreenStopped, screenStoppedPayload{From: c.connID}, c)
	}

	h.mu.Lock()
	if members := h.rooms[roomCode]; members != nil {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomCode)
		}
	}
	presence := h.presenceLocked(roomCode)
	h.mu.Unlock()

	c.roomCode = ""
	c.role = ""

	h.broadcast(roomCode, EventUserLeft, presenceChangePayload{
		User:        c.identity,
		OnlineUsers: presence,
	}, nil)

	userID := c.identity.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		if err := h.roomSvc.DropMembership(ctx, roomCode, userID); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"room_code": roomCode,
				"user_id":   userID,
			}).Warn("Failed to drop membership after leave")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"conn_id":   c.connID,
		"user_id":   userID,
		"room_code": roomCode,
		"reason":    reason,
	}).Info("Client left room")
}

// queueEvent marshals and queues a frame for one client. Used inside
// the registry lock during the join replay; broadcast frames use the
// shared frame helper instead.
func queueEvent(c *Client, event string, payload interface{}) {
	raw, ok := frame(event, payload)
	if !ok {
		return
	}
	c.enqueueRaw(raw)
}

func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		return "room not found"
	case errors.Is(err, service.ErrRoomClosed):
		return "room is closed"
	case errors.Is(err, service.ErrNotParticipant):
		return "you are not a member of this room"
	default:
		return "failed to join room"
	}
}
