package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/repository"
	"collab-canvas/internal/tasks"
)

// strokeHandler processes stroke persistence and retention tasks.
type strokeHandler struct {
	strokeRepo repository.StrokeRepository
	retention  time.Duration
	log        *logrus.Entry
}

func newStrokeHandler(strokeRepo repository.StrokeRepository, retentionHours int, log *logrus.Entry) *strokeHandler {
	if strokeRepo == nil {
		panic("StrokeRepository cannot be nil for stroke handler")
	}
	if retentionHours <= 0 {
		retentionHours = 7 * 24
	}
	return &strokeHandler{
		strokeRepo: strokeRepo,
		retention:  time.Duration(retentionHours) * time.Hour,
		log:        log,
	}
}

// HandleStrokePersist writes one sanitized stroke to the store. A
// failure here is retried by asynq; it never reaches any client.
func (h *strokeHandler) HandleStrokePersist(ctx context.Context, t *asynq.Task) error {
	var payload tasks.StrokePersistPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Malformed payloads cannot succeed on retry.
		return fmt.Errorf("unmarshal stroke persist payload: %v: %w", err, asynq.SkipRetry)
	}

	stroke, err := domain.NewStroke(payload.RoomCode, payload.Stroke)
	if err != nil {
		return fmt.Errorf("build stroke record: %v: %w", err, asynq.SkipRetry)
	}
	if err := h.strokeRepo.Save(ctx, stroke); err != nil {
		return fmt.Errorf("persist stroke %q: %w", payload.Stroke.ID, err)
	}

	h.log.WithFields(logrus.Fields{
		"room_code": payload.RoomCode,
		"stroke_id": payload.Stroke.ID,
	}).Debug("Stroke persisted")
	return nil
}

// HandleStrokeRetention deletes strokes past the retention window.
func (h *strokeHandler) HandleStrokeRetention(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().UTC().Add(-h.retention)
	deleted, err := h.strokeRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("retention sweep: %w", err)
	}
	if deleted > 0 {
		h.log.WithFields(logrus.Fields{
			"deleted": deleted,
			"cutoff":  cutoff.Format(time.RFC3339),
		}).Info("Expired strokes removed")
	}
	return nil
}
