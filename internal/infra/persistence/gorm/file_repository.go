package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"collab-canvas/internal/domain"
)

// GormFileRepository is the GORM implementation of repository.FileRepository.
type GormFileRepository struct {
	db *gorm.DB
}

func NewGormFileRepository(db *gorm.DB) *GormFileRepository {
	if db == nil {
		panic("database connection cannot be nil for GormFileRepository")
	}
	return &GormFileRepository{db: db}
}

func (r *GormFileRepository) Save(ctx context.Context, record *domain.FileRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("gorm: save file record %q (room %q): %w", record.FileID, record.RoomCode, err)
	}
	return nil
}

func (r *GormFileRepository) ListByRoom(ctx context.Context, roomCode string) ([]domain.FileRecord, error) {
	var records []domain.FileRecord
	err := r.db.WithContext(ctx).
		Where("room_code = ?", roomCode).
		Order("shared_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list file records for room %q: %w", roomCode, err)
	}
	return records, nil
}
