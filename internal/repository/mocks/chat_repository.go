package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"collab-canvas/internal/domain"
)

// ChatRepository is a mock of repository.ChatRepository.
type ChatRepository struct {
	mock.Mock
}

func (m *ChatRepository) Append(ctx context.Context, msg domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *ChatRepository) Recent(ctx context.Context, roomCode string, limit int) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, roomCode, limit)
	list, _ := args.Get(0).([]domain.ChatMessage)
	return list, args.Error(1)
}
