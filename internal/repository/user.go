package repository

import (
	"context"

	"collab-canvas/internal/domain"
)

// UserRepository stores and retrieves account records.
type UserRepository interface {
	// FindByUsername returns ErrUserNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID returns ErrUserNotFound when no account matches.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// Save creates or updates an account record.
	Save(ctx context.Context, user *domain.User) error
}
