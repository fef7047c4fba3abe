// Package tasks defines the asynq task types and payloads exchanged
// between the realtime engine and the background worker.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"collab-canvas/internal/domain"
)

// Task type identifiers.
const (
	TypeStrokePersist   = "stroke:persist"
	TypeStrokeRetention = "stroke:retention"
)

// Queue names, highest priority first.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// StrokePersistPayload carries one sanitized stroke to the worker.
type StrokePersistPayload struct {
	RoomCode string               `json:"roomCode"`
	Stroke   domain.StrokePayload `json:"stroke"`
}

// NewStrokePersistTask builds the fire-and-forget persistence task for
// a validated draw/erase event.
func NewStrokePersistTask(roomCode string, stroke domain.StrokePayload) (*asynq.Task, error) {
	payload := StrokePersistPayload{RoomCode: roomCode, Stroke: stroke}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal stroke persist payload: %w", err)
	}
	return asynq.NewTask(TypeStrokePersist, raw), nil
}

// NewStrokeRetentionTask builds the periodic retention sweep task. The
// cutoff is worker configuration, not payload.
func NewStrokeRetentionTask() *asynq.Task {
	return asynq.NewTask(TypeStrokeRetention, nil)
}
