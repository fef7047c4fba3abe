// Package hub is the realtime session engine: it tracks live
// connections, groups them by room code, fans room events out and
// routes signaling frames between connection ids.
package hub

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/service"
)

// Hub is the connection registry. All room-scoped shared state lives
// here, guarded by mu; per-connection session state lives on the Client
// and is only touched from that connection's read goroutine.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]bool
	byConn map[string]*Client

	roomSvc  *service.RoomService
	boardSvc *service.BoardService
	chatSvc  *service.ChatService
	fileSvc  *service.FileService
}

func NewHub(roomSvc *service.RoomService, boardSvc *service.BoardService, chatSvc *service.ChatService, fileSvc *service.FileService) *Hub {
	if roomSvc == nil || boardSvc == nil || chatSvc == nil || fileSvc == nil {
		panic("all services must be non-nil for Hub")
	}
	return &Hub{
		rooms:    make(map[string]map[*Client]bool),
		byConn:   make(map[string]*Client),
		roomSvc:  roomSvc,
		boardSvc: boardSvc,
		chatSvc:  chatSvc,
		fileSvc:  fileSvc,
	}
}

// Register makes an authenticated connection addressable for signaling.
// The connection holds no room yet.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.byConn[c.connID] = c
	h.mu.Unlock()
	logrus.WithFields(logrus.Fields{
		"conn_id": c.connID,
		"user_id": c.identity.ID,
	}).Info("Client registered")
}

// Unregister runs the full disconnect sequence: leave the current room
// (with presence and screen-share cleanup), drop the connection from
// the registry and close its send queue.
func (h *Hub) Unregister(c *Client) {
	h.leaveRoom(c, "disconnect")

	h.mu.Lock()
	delete(h.byConn, c.connID)
	h.mu.Unlock()

	c.closeSend()
	logrus.WithFields(logrus.Fields{
		"conn_id": c.connID,
		"user_id": c.identity.ID,
	}).Info("Client unregistered")
}

// frame marshals an outbound event envelope once, so a broadcast does
// one encode regardless of recipient count.
func frame(event string, payload interface{}) ([]byte, bool) {
	env := domain.Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			logrus.WithError(err).WithField("event", event).Error("Failed to marshal event payload")
			return nil, false
		}
		env.Data = data
	}
	raw, err := json.Marshal(env)
	if err != nil {
		logrus.WithError(err).WithField("event", event).Error("Failed to marshal event envelope")
		return nil, false
	}
	return raw, true
}

// broadcast fans an event out to the room. exclude, when non-nil, is
// the sending connection and is skipped. Recipients are collected under
// the read lock and written to outside it.
func (h *Hub) broadcast(roomCode, event string, payload interface{}, exclude *Client) {
	raw, ok := frame(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	members := h.rooms[roomCode]
	recipients := make([]*Client, 0, len(members))
	for c := range members {
		if c != exclude {
			recipients = append(recipients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range recipients {
		c.enqueueRaw(raw)
	}
}

// sendTo routes a frame to one connection id. A miss is not an error:
// signaling tolerates drops.
func (h *Hub) sendTo(connID, event string, payload interface{}) bool {
	raw, ok := frame(event, payload)
	if !ok {
		return false
	}

	h.mu.RLock()
	target := h.byConn[connID]
	h.mu.RUnlock()

	if target == nil {
		return false
	}
	target.enqueueRaw(raw)
	return true
}

// sendEvent delivers an event to a single client (sender-scoped errors,
// replies).
func (h *Hub) sendEvent(c *Client, event string, payload interface{}) {
	raw, ok := frame(event, payload)
	if !ok {
		return
	}
	c.enqueueRaw(raw)
}

// presenceLocked derives the room's presence set by enumerating the
// live member connections. Never cached and never counted
// incrementally, so it self-heals after any missed leave. Callers must
// hold mu (read or write).
func (h *Hub) presenceLocked(roomCode string) []domain.Identity {
	members := h.rooms[roomCode]
	seen := make(map[uint]bool, len(members))
	users := make([]domain.Identity, 0, len(members))
	for c := range members {
		if seen[c.identity.ID] {
			continue
		}
		seen[c.identity.ID] = true
		users = append(users, c.identity)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// Presence returns the current presence set for a room.
func (h *Hub) Presence(roomCode string) []domain.Identity {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.presenceLocked(roomCode)
}
