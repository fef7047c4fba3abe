package domain

import "encoding/json"

// SignalMessage routes opaque WebRTC negotiation data between two
// connections. From and To are connection ids, not user ids, and the
// payload is never inspected by the server.
type SignalMessage struct {
	From    string          `json:"from,omitempty"`
	To      string          `json:"to,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
