package service_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/repository/mocks"
	"collab-canvas/internal/service"
)

func TestChatService_Prepare_TrimsAndStamps(t *testing.T) {
	svc := service.NewChatService(new(mocks.ChatRepository))
	author := domain.Identity{ID: 3, Name: "alice"}

	msg, ok := svc.Prepare(author, "ROOM01", "  hello there  ")

	require.True(t, ok)
	assert.Equal(t, "hello there", msg.Text)
	assert.Equal(t, "ROOM01", msg.RoomCode)
	assert.Equal(t, uint(3), msg.Author.ID)
	assert.Equal(t, "alice", msg.Author.Name)
	assert.False(t, msg.SentAt.IsZero())
}

func TestChatService_Prepare_DropsEmpty(t *testing.T) {
	svc := service.NewChatService(new(mocks.ChatRepository))
	author := domain.Identity{ID: 3, Name: "alice"}

	_, ok := svc.Prepare(author, "ROOM01", "   \t\n ")

	assert.False(t, ok, "whitespace-only messages are dropped")
}

func TestChatService_Prepare_TruncatesLongText(t *testing.T) {
	svc := service.NewChatService(new(mocks.ChatRepository))
	author := domain.Identity{ID: 3, Name: "alice"}

	msg, ok := svc.Prepare(author, "ROOM01", strings.Repeat("x", domain.MaxChatTextLen+50))

	require.True(t, ok)
	assert.Len(t, msg.Text, domain.MaxChatTextLen)
}

func TestChatService_Prepare_TruncationKeepsRunesIntact(t *testing.T) {
	svc := service.NewChatService(new(mocks.ChatRepository))
	author := domain.Identity{ID: 3, Name: "alice"}

	// A multi-byte rune straddling the cap must be dropped whole.
	text := strings.Repeat("a", domain.MaxChatTextLen-1) + "世界"

	msg, ok := svc.Prepare(author, "ROOM01", text)

	require.True(t, ok)
	assert.LessOrEqual(t, len(msg.Text), domain.MaxChatTextLen)
	assert.True(t, utf8.ValidString(msg.Text))

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	var decoded domain.ChatMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, msg.Text, decoded.Text, "text must survive a JSON round trip unchanged")
}

func TestChatMessage_WireShapeOmitsRoomCode(t *testing.T) {
	svc := service.NewChatService(new(mocks.ChatRepository))
	author := domain.Identity{ID: 3, Name: "alice"}

	msg, ok := svc.Prepare(author, "ROOM01", "hello")
	require.True(t, ok)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "roomCode", "room scoping is carried by the broadcast group, not the frame")
	assert.Contains(t, string(raw), `"author"`)
	assert.Contains(t, string(raw), `"text"`)
	assert.Contains(t, string(raw), `"sentAt"`)
}

func TestChatService_History(t *testing.T) {
	mockRepo := new(mocks.ChatRepository)
	svc := service.NewChatService(mockRepo)
	ctx := context.Background()

	stored := []domain.ChatMessage{
		{RoomCode: "ROOM01", Text: "first"},
		{RoomCode: "ROOM01", Text: "second"},
	}
	mockRepo.On("Recent", ctx, "ROOM01", service.HistoryLimit).Return(stored, nil).Once()

	history, err := svc.History(ctx, "ROOM01")

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Text)
	mockRepo.AssertExpectations(t)
}
