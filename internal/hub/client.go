package hub

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"collab-canvas/internal/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Sized for a full stroke
	// envelope at the point-count cap.
	maxMessageSize = 256 * 1024

	sendQueueSize = 256
)

// Client is one live authenticated connection. The identity and connID
// are immutable; roomCode, role and sharing are session state mutated
// only on this connection's read goroutine, so they need no lock.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	connID   string
	identity domain.Identity

	roomCode string
	role     string
	sharing  bool

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, identity domain.Identity) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		connID:   uuid.NewString(),
		identity: identity,
		send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
	}
}

// ConnID returns the connection identifier used for signaling routes.
func (c *Client) ConnID() string { return c.connID }

// Run starts the read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

// enqueueRaw places a pre-marshaled frame on the send queue without
// blocking; a full queue drops the frame and the slow client's write
// pump or ping timeout deals with the connection. The send channel is
// never closed: a late broadcast racing a disconnect must not panic,
// so shutdown is signaled through done instead.
func (c *Client) enqueueRaw(raw []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- raw:
	default:
		logrus.WithFields(logrus.Fields{
			"conn_id": c.connID,
			"user_id": c.identity.ID,
		}).Warn("Client send queue full, dropping frame")
	}
}

// closeSend is called exactly once from Unregister.
func (c *Client) closeSend() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

// readPump pumps inbound frames into the dispatcher. Dispatch is
// synchronous: one connection's events are processed strictly in the
// order they arrive.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		logrus.WithFields(logrus.Fields{
			"conn_id": c.connID,
			"user_id": c.identity.ID,
		}).Info("readPump exited")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logCtx := logrus.WithFields(logrus.Fields{"conn_id": c.connID, "user_id": c.identity.ID})
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed")
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var env domain.Envelope
		if err := json.Unmarshal(message, &env); err != nil || env.Event == "" {
			logrus.WithFields(logrus.Fields{
				"conn_id": c.connID,
				"user_id": c.identity.ID,
			}).Debug("Dropping undecodable frame")
			continue
		}
		c.hub.dispatch(c, env)
	}
}

// writePump pumps outbound frames from the send queue to the socket
// and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithFields(logrus.Fields{
					"conn_id": c.connID,
					"user_id": c.identity.ID,
				}).WithError(err).Warn("Failed to write message to websocket")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
