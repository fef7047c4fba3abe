package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/repository"
)

// RoomService owns room lifecycle and membership. Membership is granted
// only through the REST paths (CreateRoom, JoinByCode); the realtime
// layer consumes it via Authorize as a per-join snapshot.
type RoomService struct {
	roomRepo repository.RoomRepository
}

func NewRoomService(roomRepo repository.RoomRepository) *RoomService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	return &RoomService{roomRepo: roomRepo}
}

// CreateRoom creates an active room with a generated share code and
// records the creator as its host participant.
func (s *RoomService) CreateRoom(ctx context.Context, creatorID uint) (*domain.Room, error) {
	logCtx := logrus.WithField("creator_id", creatorID)

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate unique room code")
		return nil, ErrInternalServer
	}
	logCtx = logCtx.WithField("room_code", code)

	room := &domain.Room{
		Code:       code,
		HostID:     creatorID,
		IsActive:   true,
		LastActive: time.Now().UTC(),
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		logCtx.WithError(err).Error("Failed to save new room")
		return nil, ErrInternalServer
	}

	host := &domain.Participant{
		RoomCode: code,
		UserID:   creatorID,
		Role:     domain.RoleHost,
	}
	if err := s.roomRepo.AddParticipant(ctx, host); err != nil {
		logCtx.WithError(err).Error("Failed to record host participant")
		return nil, ErrInternalServer
	}

	logCtx.Info("Room created")
	return room, nil
}

// JoinByCode records the user as a participant of the room. Already
// being a member is not an error; the existing role is kept.
func (s *RoomService) JoinByCode(ctx context.Context, userID uint, code string) (*domain.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_code": code})

	room, err := s.findOpenRoom(ctx, code, logCtx)
	if err != nil {
		return nil, err
	}

	p := &domain.Participant{
		RoomCode: room.Code,
		UserID:   userID,
		Role:     domain.RoleParticipant,
	}
	if err := s.roomRepo.AddParticipant(ctx, p); err != nil && !errors.Is(err, repository.ErrDuplicateEntry) {
		logCtx.WithError(err).Error("Failed to record participant")
		return nil, ErrInternalServer
	}

	logCtx.Info("User joined room")
	return room, nil
}

// GetRoom returns a room and its recorded membership.
func (s *RoomService) GetRoom(ctx context.Context, code string) (*domain.Room, []domain.Participant, error) {
	room, err := s.roomRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		logrus.WithError(err).WithField("room_code", code).Error("Failed to find room")
		return nil, nil, ErrInternalServer
	}
	participants, err := s.roomRepo.ListParticipants(ctx, code)
	if err != nil {
		logrus.WithError(err).WithField("room_code", code).Error("Failed to list participants")
		return nil, nil, ErrInternalServer
	}
	return room, participants, nil
}

// Authorize is the per-join membership check the session coordinator
// runs: the room must exist and be open, and the identity must be a
// recorded participant. The returned role is a snapshot taken at this
// join; it is not refreshed while the connection stays in the room.
func (s *RoomService) Authorize(ctx context.Context, code string, userID uint) (*domain.Room, string, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_code": code})

	room, err := s.findOpenRoom(ctx, code, logCtx)
	if err != nil {
		return nil, "", err
	}

	p, err := s.roomRepo.FindParticipant(ctx, code, userID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			logCtx.Warn("Join denied: not a recorded participant")
			return nil, "", ErrNotParticipant
		}
		logCtx.WithError(err).Error("Failed to check membership")
		return nil, "", ErrInternalServer
	}
	return room, p.Role, nil
}

// DropMembership removes the user's participant row after a disconnect.
// The host's row is kept: it anchors the room. Callers treat this as
// best-effort.
func (s *RoomService) DropMembership(ctx context.Context, code string, userID uint) error {
	p, err := s.roomRepo.FindParticipant(ctx, code, userID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return nil
		}
		return fmt.Errorf("find participant for removal: %w", err)
	}
	if p.Role == domain.RoleHost {
		return nil
	}
	if err := s.roomRepo.RemoveParticipant(ctx, code, userID); err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	return nil
}

func (s *RoomService) findOpenRoom(ctx context.Context, code string, logCtx *logrus.Entry) (*domain.Room, error) {
	room, err := s.roomRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			logCtx.Warn("Room not found")
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to find room")
		return nil, ErrInternalServer
	}
	if room == nil {
		logCtx.Warn("Repository returned nil room without error")
		return nil, ErrRoomNotFound
	}
	if !room.IsActive {
		logCtx.Warn("Room is closed")
		return nil, ErrRoomClosed
	}
	return room, nil
}

// generateUniqueCode builds a 6-character share code, retrying on the
// rare collision.
func (s *RoomService) generateUniqueCode(ctx context.Context) (string, error) {
	const letters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	const codeLength = 6
	const maxAttempts = 10

	b := make([]byte, codeLength)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		for i := range b {
			b[i] = letters[int(b[i])%len(letters)]
		}
		code := string(b)

		taken, err := s.roomRepo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", fmt.Errorf("database error checking room code: %w", err)
		}
		if !taken {
			return code, nil
		}
		logrus.WithField("room_code", code).Warnf("Generated room code already exists, retrying (attempt %d)", attempt+1)
	}
	return "", fmt.Errorf("failed to generate a unique room code after %d attempts", maxAttempts)
}
