package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/repository"
)

// HistoryLimit is the number of messages replayed to a joining
// connection.
const HistoryLimit = 50

// ChatService shapes and stores chat messages. Prepare is pure; the
// hub issues Append as its own best-effort task so the broadcast never
// waits on storage.
type ChatService struct {
	chatRepo repository.ChatRepository
}

func NewChatService(chatRepo repository.ChatRepository) *ChatService {
	if chatRepo == nil {
		panic("ChatRepository cannot be nil for ChatService")
	}
	return &ChatService{chatRepo: chatRepo}
}

// Prepare trims and bounds the text and stamps the message. Messages
// empty after trimming are dropped: ok is false and nothing should be
// stored or broadcast.
func (s *ChatService) Prepare(author domain.Identity, roomCode, text string) (domain.ChatMessage, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, false
	}
	text = truncateText(text, domain.MaxChatTextLen)
	return domain.ChatMessage{
		RoomCode: roomCode,
		Author:   domain.ChatAuthor{ID: author.ID, Name: author.Name},
		Text:     text,
		SentAt:   time.Now().UTC(),
	}, true
}

// Append persists one message.
func (s *ChatService) Append(ctx context.Context, msg domain.ChatMessage) error {
	return s.chatRepo.Append(ctx, msg)
}

// History returns the room's most recent messages, oldest first.
func (s *ChatService) History(ctx context.Context, roomCode string) ([]domain.ChatMessage, error) {
	return s.chatRepo.Recent(ctx, roomCode, HistoryLimit)
}

// truncateText caps the string at max bytes without splitting a rune,
// so the result is always valid UTF-8 and survives a JSON round trip.
func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
