package domain

// Identity is the authenticated user bound to a live connection.
// It is resolved once by the connection gate and never changes for the
// lifetime of that connection.
type Identity struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}
