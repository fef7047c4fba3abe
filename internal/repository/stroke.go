package repository

import (
	"context"
	"time"

	"collab-canvas/internal/domain"
)

// StrokeRepository is the append-only store behind canvas replay.
type StrokeRepository interface {
	// Save appends one stroke record.
	Save(ctx context.Context, stroke *domain.Stroke) error

	// ListByRoom returns all strokes for a room in creation order
	// (ascending), the order replayed to late joiners.
	ListByRoom(ctx context.Context, roomCode string) ([]domain.Stroke, error)

	// DeleteByRoom removes every stroke for a room (host clear).
	DeleteByRoom(ctx context.Context, roomCode string) error

	// DeleteOlderThan removes strokes created before the cutoff and
	// reports how many rows went away. Used by the retention sweep.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
