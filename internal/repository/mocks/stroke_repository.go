package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"collab-canvas/internal/domain"
)

// StrokeRepository is a mock of repository.StrokeRepository.
type StrokeRepository struct {
	mock.Mock
}

func (m *StrokeRepository) Save(ctx context.Context, stroke *domain.Stroke) error {
	args := m.Called(ctx, stroke)
	return args.Error(0)
}

func (m *StrokeRepository) ListByRoom(ctx context.Context, roomCode string) ([]domain.Stroke, error) {
	args := m.Called(ctx, roomCode)
	list, _ := args.Get(0).([]domain.Stroke)
	return list, args.Error(1)
}

func (m *StrokeRepository) DeleteByRoom(ctx context.Context, roomCode string) error {
	args := m.Called(ctx, roomCode)
	return args.Error(0)
}

func (m *StrokeRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
