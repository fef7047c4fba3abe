package hub

import (
	"github.com/sirupsen/logrus"

	"collab-canvas/internal/domain"
)

// dispatch routes one inbound envelope. It runs on the sending
// connection's read goroutine, so a single connection's events are
// handled strictly in arrival order.
//
// Every event except join_room requires the connection to be joined to
// a room; events arriving outside a room are ignored without an error,
// since that race is expected during client-side teardown.
func (h *Hub) dispatch(c *Client, env domain.Envelope) {
	if env.Event != EventJoinRoom && c.roomCode == "" {
		logrus.WithFields(logrus.Fields{
			"conn_id": c.connID,
			"event":   env.Event,
		}).Debug("Dropping event from connection outside a room")
		return
	}

	switch env.Event {
	case EventJoinRoom:
		h.handleJoinRoom(c, env.Data)
	case EventLeaveRoom:
		h.leaveRoom(c, "leave_room")

	case EventDraw:
		h.handleStroke(c, env.Data, EventDraw, false)
	case EventErase:
		h.handleStroke(c, env.Data, EventErase, true)
	case EventClearBoard:
		h.handleClearBoard(c)
	case EventUndo:
		h.handleHistoryIntent(c, EventUndo)
	case EventRedo:
		h.handleHistoryIntent(c, EventRedo)
	case EventCursorMove:
		h.handleCursorMove(c, env.Data)

	case EventSendMessage:
		h.handleSendMessage(c, env.Data)

	case EventFileShare:
		h.handleFileShare(c, env.Data)
	case EventFileListRequest:
		h.handleFileListRequest(c)

	case EventScreenStart:
		h.handleScreenStart(c)
	case EventScreenStop:
		h.handleScreenStop(c)
	case EventScreenRequest:
		h.handleScreenRequest(c, env.Data)
	case EventScreenOffer, EventScreenAnswer, EventScreenIce:
		h.handleScreenSignal(c, env.Event, env.Data)

	default:
		logrus.WithFields(logrus.Fields{
			"conn_id": c.connID,
			"event":   env.Event,
		}).Debug("Unknown event")
	}
}
