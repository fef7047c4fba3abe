package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"collab-canvas/internal/domain"
)

// FileRepository is a mock of repository.FileRepository.
type FileRepository struct {
	mock.Mock
}

func (m *FileRepository) Save(ctx context.Context, record *domain.FileRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *FileRepository) ListByRoom(ctx context.Context, roomCode string) ([]domain.FileRecord, error) {
	args := m.Called(ctx, roomCode)
	list, _ := args.Get(0).([]domain.FileRecord)
	return list, args.Error(1)
}
