package hub

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/repository"
	"collab-canvas/internal/repository/mocks"
	"collab-canvas/internal/service"
)

type nopEnqueuer struct{}

func (nopEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	return &asynq.TaskInfo{}, nil
}

type hubFixture struct {
	hub        *Hub
	roomRepo   *mocks.RoomRepository
	strokeRepo *mocks.StrokeRepository
	chatRepo   *mocks.ChatRepository
	fileRepo   *mocks.FileRepository
}

func newHubFixture(t *testing.T) *hubFixture {
	t.Helper()
	f := &hubFixture{
		roomRepo:   new(mocks.RoomRepository),
		strokeRepo: new(mocks.StrokeRepository),
		chatRepo:   new(mocks.ChatRepository),
		fileRepo:   new(mocks.FileRepository),
	}
	f.hub = NewHub(
		service.NewRoomService(f.roomRepo),
		service.NewBoardService(f.strokeRepo, nopEnqueuer{}),
		service.NewChatService(f.chatRepo),
		service.NewFileService(f.fileRepo),
	)
	return f
}

// newTestClient builds a client with a buffered queue and no socket;
// the pumps are never started in these tests.
func newTestClient(h *Hub, connID string, userID uint) *Client {
	return &Client{
		hub:      h,
		connID:   connID,
		identity: domain.Identity{ID: userID, Name: fmt.Sprintf("user-%d", userID)},
		send:     make(chan []byte, 64),
		done:     make(chan struct{}),
	}
}

func (f *hubFixture) attach(c *Client, roomCode string) {
	f.hub.mu.Lock()
	defer f.hub.mu.Unlock()
	f.hub.byConn[c.connID] = c
	if f.hub.rooms[roomCode] == nil {
		f.hub.rooms[roomCode] = make(map[*Client]bool)
	}
	f.hub.rooms[roomCode][c] = true
	c.roomCode = roomCode
	c.role = domain.RoleParticipant
}

// drainEvents decodes every frame currently queued for the client.
func drainEvents(t *testing.T, c *Client) []domain.Envelope {
	t.Helper()
	var events []domain.Envelope
	for {
		select {
		case raw := <-c.send:
			var env domain.Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			events = append(events, env)
		default:
			return events
		}
	}
}

func eventNames(events []domain.Envelope) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Event)
	}
	return names
}

func TestPresence_DeduplicatesAndSorts(t *testing.T) {
	f := newHubFixture(t)

	// user 7 holds two connections; user 2 one.
	f.attach(newTestClient(f.hub, "c1", 7), "ROOM01")
	f.attach(newTestClient(f.hub, "c2", 7), "ROOM01")
	f.attach(newTestClient(f.hub, "c3", 2), "ROOM01")

	users := f.hub.Presence("ROOM01")

	require.Len(t, users, 2)
	assert.Equal(t, uint(2), users[0].ID)
	assert.Equal(t, uint(7), users[1].ID)
}

func TestPresence_EmptyRoom(t *testing.T) {
	f := newHubFixture(t)

	assert.Empty(t, f.hub.Presence("NOROOM"))
}

func TestBroadcast_ExcludesSender(t *testing.T) {
	f := newHubFixture(t)
	sender := newTestClient(f.hub, "c1", 1)
	peer := newTestClient(f.hub, "c2", 2)
	f.attach(sender, "ROOM01")
	f.attach(peer, "ROOM01")

	f.hub.broadcast("ROOM01", EventDraw, map[string]string{"id": "s1"}, sender)

	assert.Empty(t, drainEvents(t, sender))
	peerEvents := drainEvents(t, peer)
	require.Len(t, peerEvents, 1)
	assert.Equal(t, EventDraw, peerEvents[0].Event)
}

func TestBroadcast_IncludesSenderWhenNotExcluded(t *testing.T) {
	f := newHubFixture(t)
	sender := newTestClient(f.hub, "c1", 1)
	peer := newTestClient(f.hub, "c2", 2)
	f.attach(sender, "ROOM01")
	f.attach(peer, "ROOM01")

	f.hub.broadcast("ROOM01", EventChatMessage, map[string]string{"text": "hi"}, nil)

	assert.Len(t, drainEvents(t, sender), 1)
	assert.Len(t, drainEvents(t, peer), 1)
}

func TestBroadcast_ScopedToRoom(t *testing.T) {
	f := newHubFixture(t)
	inRoom := newTestClient(f.hub, "c1", 1)
	elsewhere := newTestClient(f.hub, "c2", 2)
	f.attach(inRoom, "ROOM01")
	f.attach(elsewhere, "ROOM02")

	f.hub.broadcast("ROOM01", EventDraw, nil, nil)

	assert.Len(t, drainEvents(t, inRoom), 1)
	assert.Empty(t, drainEvents(t, elsewhere))
}

func TestSendTo_RoutesByConnID(t *testing.T) {
	f := newHubFixture(t)
	target := newTestClient(f.hub, "c1", 1)
	f.attach(target, "ROOM01")

	ok := f.hub.sendTo("c1", EventScreenOffer, map[string]string{"from": "c9"})

	assert.True(t, ok)
	events := drainEvents(t, target)
	require.Len(t, events, 1)
	assert.Equal(t, EventScreenOffer, events[0].Event)
}

func TestSendTo_UnknownConnIsDropped(t *testing.T) {
	f := newHubFixture(t)

	assert.False(t, f.hub.sendTo("ghost", EventScreenOffer, nil))
}

func TestDispatch_DropsEventsOutsideRoom(t *testing.T) {
	f := newHubFixture(t)
	c := newTestClient(f.hub, "c1", 1)
	f.hub.Register(c)

	f.hub.dispatch(c, domain.Envelope{Event: EventDraw, Data: json.RawMessage(`{"id":"s1"}`)})
	f.hub.dispatch(c, domain.Envelope{Event: EventSendMessage, Data: json.RawMessage(`{"text":"hi"}`)})

	assert.Empty(t, drainEvents(t, c), "events before join_room are ignored without an error")
	f.strokeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestHandleJoinRoom_ReplaySequence(t *testing.T) {
	f := newHubFixture(t)
	joiner := newTestClient(f.hub, "c1", 5)
	peer := newTestClient(f.hub, "c2", 6)
	f.hub.Register(joiner)
	f.attach(peer, "ROOM01")

	room := &domain.Room{Code: "ROOM01", HostID: 5, IsActive: true}
	member := &domain.Participant{RoomCode: "ROOM01", UserID: 5, Role: domain.RoleHost}
	f.roomRepo.On("FindByCode", mock.Anything, "ROOM01").Return(room, nil).Once()
	f.roomRepo.On("FindParticipant", mock.Anything, "ROOM01", uint(5)).Return(member, nil).Once()
	f.chatRepo.On("Recent", mock.Anything, "ROOM01", service.HistoryLimit).
		Return([]domain.ChatMessage{{Text: "old"}}, nil).Once()
	f.strokeRepo.On("ListByRoom", mock.Anything, "ROOM01").
		Return([]domain.Stroke{{StrokeID: "s1", Points: `[{"x":1,"y":1}]`}}, nil).Once()

	f.hub.handleJoinRoom(joiner, json.RawMessage(`{"roomCode":"ROOM01"}`))

	got := eventNames(drainEvents(t, joiner))
	require.Equal(t, []string{
		EventRoomJoined,
		EventChatHistory,
		EventPresenceSnapshot,
		EventCanvasRestore,
	}, got, "replay frames must arrive in a fixed order before anything live")

	peerEvents := drainEvents(t, peer)
	require.Len(t, peerEvents, 1)
	assert.Equal(t, EventUserJoined, peerEvents[0].Event)

	assert.Equal(t, "ROOM01", joiner.roomCode)
	assert.Equal(t, domain.RoleHost, joiner.role)
	f.roomRepo.AssertExpectations(t)
}

func TestHandleJoinRoom_RejectedNonMember(t *testing.T) {
	f := newHubFixture(t)
	joiner := newTestClient(f.hub, "c1", 5)
	f.hub.Register(joiner)

	room := &domain.Room{Code: "ROOM01", IsActive: true}
	f.roomRepo.On("FindByCode", mock.Anything, "ROOM01").Return(room, nil).Once()
	f.roomRepo.On("FindParticipant", mock.Anything, "ROOM01", uint(5)).
		Return(nil, repository.ErrParticipantNotFound).Once()

	f.hub.handleJoinRoom(joiner, json.RawMessage(`{"roomCode":"ROOM01"}`))

	events := drainEvents(t, joiner)
	require.Len(t, events, 1)
	assert.Equal(t, EventRoomError, events[0].Event)
	assert.Empty(t, joiner.roomCode)
}

func TestUnregister_RemovesFromRoomAndRegistry(t *testing.T) {
	f := newHubFixture(t)
	leaver := newTestClient(f.hub, "c1", 1)
	peer := newTestClient(f.hub, "c2", 2)
	f.attach(leaver, "ROOM01")
	f.attach(peer, "ROOM01")

	// DropMembership runs on a background goroutine after the leave.
	f.roomRepo.On("FindParticipant", mock.Anything, "ROOM01", uint(1)).
		Return(&domain.Participant{RoomCode: "ROOM01", UserID: 1, Role: domain.RoleParticipant}, nil).Maybe()
	f.roomRepo.On("RemoveParticipant", mock.Anything, "ROOM01", uint(1)).Return(nil).Maybe()

	f.hub.Unregister(leaver)

	remaining := f.hub.Presence("ROOM01")
	require.Len(t, remaining, 1, "only the peer remains")
	assert.Equal(t, uint(2), remaining[0].ID)
	peerEvents := drainEvents(t, peer)
	require.Len(t, peerEvents, 1)
	assert.Equal(t, EventUserLeft, peerEvents[0].Event)

	f.hub.mu.RLock()
	_, stillThere := f.hub.byConn["c1"]
	f.hub.mu.RUnlock()
	assert.False(t, stillThere)

	// Late broadcasts after the disconnect must be silently dropped.
	f.hub.sendTo("c1", EventChatMessage, nil)
	assert.Empty(t, drainEvents(t, leaver))
}

func TestHandleClearBoard_NonHostRejected(t *testing.T) {
	f := newHubFixture(t)
	member := newTestClient(f.hub, "c1", 1)
	peer := newTestClient(f.hub, "c2", 2)
	f.attach(member, "ROOM01")
	f.attach(peer, "ROOM01")

	f.hub.dispatch(member, domain.Envelope{Event: EventClearBoard})

	events := drainEvents(t, member)
	require.Len(t, events, 1, "exactly one error frame back to the issuer")
	assert.Equal(t, EventBoardError, events[0].Event)
	assert.Empty(t, drainEvents(t, peer), "a rejected clear has no side effects")
	f.strokeRepo.AssertNotCalled(t, "DeleteByRoom", mock.Anything, mock.Anything)
}

func TestHandleClearBoard_HostClearsAndNotifiesAll(t *testing.T) {
	f := newHubFixture(t)
	host := newTestClient(f.hub, "c1", 1)
	peer := newTestClient(f.hub, "c2", 2)
	f.attach(host, "ROOM01")
	f.attach(peer, "ROOM01")
	host.role = domain.RoleHost

	f.strokeRepo.On("DeleteByRoom", mock.Anything, "ROOM01").Return(nil).Once()

	f.hub.dispatch(host, domain.Envelope{Event: EventClearBoard})

	hostEvents := drainEvents(t, host)
	require.Len(t, hostEvents, 1, "the issuer gets the clear notice too")
	assert.Equal(t, EventClearBoard, hostEvents[0].Event)

	peerEvents := drainEvents(t, peer)
	require.Len(t, peerEvents, 1)
	assert.Equal(t, EventClearBoard, peerEvents[0].Event)
	f.strokeRepo.AssertExpectations(t)
}

func TestHandleClearBoard_DeleteFailureSuppressesNotice(t *testing.T) {
	f := newHubFixture(t)
	host := newTestClient(f.hub, "c1", 1)
	peer := newTestClient(f.hub, "c2", 2)
	f.attach(host, "ROOM01")
	f.attach(peer, "ROOM01")
	host.role = domain.RoleHost

	f.strokeRepo.On("DeleteByRoom", mock.Anything, "ROOM01").
		Return(fmt.Errorf("db gone")).Once()

	f.hub.dispatch(host, domain.Envelope{Event: EventClearBoard})

	assert.Empty(t, drainEvents(t, host), "no notice without a completed delete")
	assert.Empty(t, drainEvents(t, peer))
}

func TestScreenSignal_RewritesFromAndRoutes(t *testing.T) {
	f := newHubFixture(t)
	sender := newTestClient(f.hub, "c1", 1)
	target := newTestClient(f.hub, "c2", 2)
	f.attach(sender, "ROOM01")
	f.attach(target, "ROOM01")

	raw := json.RawMessage(`{"from":"spoofed","to":"c2","payload":{"sdp":"offer"}}`)
	f.hub.dispatch(sender, domain.Envelope{Event: EventScreenOffer, Data: raw})

	events := drainEvents(t, target)
	require.Len(t, events, 1)
	var sig domain.SignalMessage
	require.NoError(t, json.Unmarshal(events[0].Data, &sig))
	assert.Equal(t, "c1", sig.From, "sender id must be server-resolved")
	assert.Equal(t, "c2", sig.To)
}

func TestScreenSignal_MissingTargetDropped(t *testing.T) {
	f := newHubFixture(t)
	sender := newTestClient(f.hub, "c1", 1)
	f.attach(sender, "ROOM01")

	raw := json.RawMessage(`{"to":"gone","payload":{"sdp":"offer"}}`)
	f.hub.dispatch(sender, domain.Envelope{Event: EventScreenAnswer, Data: raw})

	assert.Empty(t, drainEvents(t, sender), "no error frame for a vanished target")
}
