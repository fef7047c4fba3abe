package repository

import (
	"context"

	"collab-canvas/internal/domain"
)

// RoomRepository stores rooms and their recorded membership. The
// realtime layer reads membership here but never grants it.
type RoomRepository interface {
	// FindByCode returns ErrRoomNotFound when no room matches.
	FindByCode(ctx context.Context, code string) (*domain.Room, error)

	// Save creates or updates a room.
	Save(ctx context.Context, room *domain.Room) error

	// IsCodeTaken reports whether a room code is already in use.
	IsCodeTaken(ctx context.Context, code string) (bool, error)

	// AddParticipant records membership; ErrDuplicateEntry when the
	// user is already a member.
	AddParticipant(ctx context.Context, p *domain.Participant) error

	// FindParticipant returns ErrParticipantNotFound when the user is
	// not a recorded member of the room.
	FindParticipant(ctx context.Context, code string, userID uint) (*domain.Participant, error)

	// ListParticipants returns the room's recorded membership.
	ListParticipants(ctx context.Context, code string) ([]domain.Participant, error)

	// RemoveParticipant deletes a membership record.
	RemoveParticipant(ctx context.Context, code string, userID uint) error
}
