package service

import "errors"

// Business errors returned by the service layer. Handlers map these to
// wire responses; anything unexpected collapses to ErrInternalServer.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoomClosed           = errors.New("room is closed")
	ErrNotParticipant       = errors.New("not a participant of this room")
	ErrInternalServer       = errors.New("internal server error")
)

// Connection-gate errors. Each maps to exactly one rejection tag sent
// to the client before the upgrade.
var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrInactiveUser = errors.New("unknown or inactive user")
)

// AuthErrorTag maps a connection-gate error to its wire tag.
func AuthErrorTag(err error) string {
	switch {
	case errors.Is(err, ErrNoToken):
		return "no-token"
	case errors.Is(err, ErrInactiveUser):
		return "inactive-user"
	default:
		return "invalid-token"
	}
}
