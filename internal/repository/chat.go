package repository

import (
	"context"

	"collab-canvas/internal/domain"
)

// ChatRepository stores the retention-bound chat history per room.
type ChatRepository interface {
	// Append persists one message and refreshes the room's retention
	// window.
	Append(ctx context.Context, msg domain.ChatMessage) error

	// Recent returns up to limit of the newest messages in
	// chronological (oldest-first) order.
	Recent(ctx context.Context, roomCode string, limit int) ([]domain.ChatMessage, error)
}
