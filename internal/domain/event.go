package domain

import "encoding/json"

// Envelope is the frame exchanged over the websocket: an event name and
// an event-specific body left raw until the handler for that event
// decodes it.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}
