package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"collab-canvas/internal/domain"
)

// RoomRepository is a mock of repository.RoomRepository.
type RoomRepository struct {
	mock.Mock
}

func (m *RoomRepository) FindByCode(ctx context.Context, code string) (*domain.Room, error) {
	args := m.Called(ctx, code)
	room, _ := args.Get(0).(*domain.Room)
	return room, args.Error(1)
}

func (m *RoomRepository) Save(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *RoomRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *RoomRepository) AddParticipant(ctx context.Context, p *domain.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *RoomRepository) FindParticipant(ctx context.Context, code string, userID uint) (*domain.Participant, error) {
	args := m.Called(ctx, code, userID)
	p, _ := args.Get(0).(*domain.Participant)
	return p, args.Error(1)
}

func (m *RoomRepository) ListParticipants(ctx context.Context, code string) ([]domain.Participant, error) {
	args := m.Called(ctx, code)
	list, _ := args.Get(0).([]domain.Participant)
	return list, args.Error(1)
}

func (m *RoomRepository) RemoveParticipant(ctx context.Context, code string, userID uint) error {
	args := m.Called(ctx, code, userID)
	return args.Error(0)
}
