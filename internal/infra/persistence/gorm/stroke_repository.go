package gormpersistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"collab-canvas/internal/domain"
)

// GormStrokeRepository is the GORM implementation of repository.StrokeRepository.
type GormStrokeRepository struct {
	db *gorm.DB
}

func NewGormStrokeRepository(db *gorm.DB) *GormStrokeRepository {
	if db == nil {
		panic("database connection cannot be nil for GormStrokeRepository")
	}
	return &GormStrokeRepository{db: db}
}

func (r *GormStrokeRepository) Save(ctx context.Context, stroke *domain.Stroke) error {
	if err := r.db.WithContext(ctx).Create(stroke).Error; err != nil {
		return fmt.Errorf("gorm: save stroke %q (room %q): %w", stroke.StrokeID, stroke.RoomCode, err)
	}
	return nil
}

// ListByRoom returns the room's strokes in replay order. The secondary
// sort on the primary key keeps order stable for strokes created within
// the same timestamp tick.
func (r *GormStrokeRepository) ListByRoom(ctx context.Context, roomCode string) ([]domain.Stroke, error) {
	var strokes []domain.Stroke
	err := r.db.WithContext(ctx).
		Where("room_code = ?", roomCode).
		Order("created_at ASC, id ASC").
		Find(&strokes).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list strokes for room %q: %w", roomCode, err)
	}
	return strokes, nil
}

func (r *GormStrokeRepository) DeleteByRoom(ctx context.Context, roomCode string) error {
	err := r.db.WithContext(ctx).
		Where("room_code = ?", roomCode).
		Delete(&domain.Stroke{}).Error
	if err != nil {
		return fmt.Errorf("gorm: delete strokes for room %q: %w", roomCode, err)
	}
	return nil
}

func (r *GormStrokeRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.Stroke{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete strokes older than %s: %w", cutoff.Format(time.RFC3339), result.Error)
	}
	return result.RowsAffected, nil
}
