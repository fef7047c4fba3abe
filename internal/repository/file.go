package repository

import (
	"context"

	"collab-canvas/internal/domain"
)

// FileRepository stores file metadata registered by the upload flow.
type FileRepository interface {
	// Save appends one file record.
	Save(ctx context.Context, record *domain.FileRecord) error

	// ListByRoom returns the room's file records, oldest first.
	ListByRoom(ctx context.Context, roomCode string) ([]domain.FileRecord, error)
}
