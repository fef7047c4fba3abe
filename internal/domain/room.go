package domain

import "time"

// Participant roles. A room has exactly one host at a time; the host is
// always among the participants.
const (
	RoleHost        = "host"
	RoleParticipant = "participant"
)

// Room is a collaboration session. Code is the short shareable
// identifier used as the broadcast-group key for every room-scoped
// event and persisted record.
type Room struct {
	ID         uint      `gorm:"primaryKey"`
	Code       string    `gorm:"uniqueIndex;size:191;not null"`
	HostID     uint      `gorm:"index;not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	LastActive time.Time `gorm:"index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Participant records membership. Membership is granted through the
// REST layer only; the realtime layer just reads it.
type Participant struct {
	ID       uint      `gorm:"primaryKey"`
	RoomCode string    `gorm:"uniqueIndex:idx_room_user;size:191;not null"`
	UserID   uint      `gorm:"uniqueIndex:idx_room_user;not null"`
	Role     string    `gorm:"size:20;not null"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}
