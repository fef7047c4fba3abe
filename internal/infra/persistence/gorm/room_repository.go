package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/repository"
)

// GormRoomRepository is the GORM implementation of repository.RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) FindByCode(ctx context.Context, code string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by code %q: %w", code, err)
	}
	return &room, nil
}

func (r *GormRoomRepository) Save(ctx context.Context, room *domain.Room) error {
	if err := r.db.WithContext(ctx).Save(room).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save room %q: %w", room.Code, err)
	}
	return nil
}

func (r *GormRoomRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Room{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: count rooms with code %q: %w", code, err)
	}
	return count > 0, nil
}

func (r *GormRoomRepository) AddParticipant(ctx context.Context, p *domain.Participant) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: add participant (room %q, user %d): %w", p.RoomCode, p.UserID, err)
	}
	return nil
}

func (r *GormRoomRepository) FindParticipant(ctx context.Context, code string, userID uint) (*domain.Participant, error) {
	var p domain.Participant
	err := r.db.WithContext(ctx).
		Where("room_code = ? AND user_id = ?", code, userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("gorm: find participant (room %q, user %d): %w", code, userID, err)
	}
	return &p, nil
}

func (r *GormRoomRepository) ListParticipants(ctx context.Context, code string) ([]domain.Participant, error) {
	var list []domain.Participant
	err := r.db.WithContext(ctx).
		Where("room_code = ?", code).
		Order("joined_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list participants for room %q: %w", code, err)
	}
	return list, nil
}

func (r *GormRoomRepository) RemoveParticipant(ctx context.Context, code string, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("room_code = ? AND user_id = ?", code, userID).
		Delete(&domain.Participant{}).Error
	if err != nil {
		return fmt.Errorf("gorm: remove participant (room %q, user %d): %w", code, userID, err)
	}
	return nil
}
