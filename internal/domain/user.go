package domain

import "time"

// User is an account record. The Password column holds a bcrypt hash.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null"`
	Password  string    `gorm:"type:text;not null"`
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_email"`
	Avatar    string    `gorm:"type:varchar(255)"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Identity derives the connection-facing view of the account.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Username, Avatar: u.Avatar}
}
