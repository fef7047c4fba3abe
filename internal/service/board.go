package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/repository"
	"collab-canvas/internal/tasks"
)

// TaskEnqueuer is the slice of the asynq client the board service
// needs; kept as an interface so tests can fake it.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ValidationError reports which field category of a stroke envelope
// failed validation. It travels back to the sending connection only.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "invalid stroke payload: " + e.Field
}

var allowedTools = map[string]bool{
	domain.ToolPen:     true,
	domain.ToolEraser:  true,
	domain.ToolLine:    true,
	domain.ToolRect:    true,
	domain.ToolEllipse: true,
	domain.ToolText:    true,
}

// BoardService validates, sanitizes, persists and replays strokes.
// Persistence of individual strokes is fire-and-forget through the task
// queue; the clear path deletes synchronously because its broadcast
// must follow a completed delete.
type BoardService struct {
	strokeRepo repository.StrokeRepository
	enqueuer   TaskEnqueuer
}

func NewBoardService(strokeRepo repository.StrokeRepository, enqueuer TaskEnqueuer) *BoardService {
	if strokeRepo == nil {
		panic("StrokeRepository cannot be nil for BoardService")
	}
	if enqueuer == nil {
		panic("task enqueuer cannot be nil for BoardService")
	}
	return &BoardService{strokeRepo: strokeRepo, enqueuer: enqueuer}
}

// Sanitize validates a raw stroke envelope and reduces it to the
// canonical payload: unknown fields are dropped, the author is
// server-resolved, text survives only for the text tool and is capped.
// forceEraser rewrites the tool before validation (erase events).
func (s *BoardService) Sanitize(raw []byte, authorID uint, forceEraser bool) (domain.StrokePayload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.StrokePayload{}, &ValidationError{Field: "payload"}
	}

	var id string
	if err := json.Unmarshal(fields["id"], &id); err != nil || id == "" {
		return domain.StrokePayload{}, &ValidationError{Field: "id"}
	}

	var tool string
	if forceEraser {
		tool = domain.ToolEraser
	} else if err := json.Unmarshal(fields["tool"], &tool); err != nil || !allowedTools[tool] {
		return domain.StrokePayload{}, &ValidationError{Field: "tool"}
	}

	var color string
	if err := json.Unmarshal(fields["color"], &color); err != nil {
		return domain.StrokePayload{}, &ValidationError{Field: "color"}
	}

	var size float64
	if err := json.Unmarshal(fields["size"], &size); err != nil || size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return domain.StrokePayload{}, &ValidationError{Field: "size"}
	}

	// Pointer fields so an absent coordinate is distinguishable from a
	// legitimate zero.
	var rawPoints []struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(fields["points"], &rawPoints); err != nil ||
		len(rawPoints) == 0 || len(rawPoints) > domain.MaxStrokePoints {
		return domain.StrokePayload{}, &ValidationError{Field: "points"}
	}
	points := make([]domain.Point, 0, len(rawPoints))
	for _, p := range rawPoints {
		if p.X == nil || p.Y == nil {
			return domain.StrokePayload{}, &ValidationError{Field: "points"}
		}
		points = append(points, domain.Point{X: *p.X, Y: *p.Y})
	}

	var text string
	if tool == domain.ToolText {
		if rawText, ok := fields["text"]; ok {
			if err := json.Unmarshal(rawText, &text); err != nil {
				return domain.StrokePayload{}, &ValidationError{Field: "text"}
			}
		}
		text = truncateText(text, domain.MaxStrokeTextLen)
	}

	return domain.StrokePayload{
		ID:        id,
		Tool:      tool,
		Color:     color,
		Size:      size,
		Points:    points,
		Text:      text,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// PersistAsync hands the sanitized stroke to the task queue. Failures
// are logged and never surfaced: durability is best-effort and the
// broadcast must not wait on it.
func (s *BoardService) PersistAsync(roomCode string, payload domain.StrokePayload) {
	task, err := tasks.NewStrokePersistTask(roomCode, payload)
	if err != nil {
		logrus.WithError(err).WithField("room_code", roomCode).Error("Failed to build stroke persistence task")
		return
	}
	if _, err := s.enqueuer.Enqueue(task, asynq.Queue(tasks.QueueDefault)); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"room_code": roomCode,
			"stroke_id": payload.ID,
		}).Error("Failed to enqueue stroke persistence task")
	}
}

// Replay returns all of a room's strokes in creation order. A stroke
// whose stored points no longer decode is skipped rather than breaking
// the whole replay.
func (s *BoardService) Replay(ctx context.Context, roomCode string) ([]domain.StrokePayload, error) {
	strokes, err := s.strokeRepo.ListByRoom(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	payloads := make([]domain.StrokePayload, 0, len(strokes))
	for i := range strokes {
		p, err := strokes[i].Payload()
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"room_code": roomCode,
				"stroke_id": strokes[i].StrokeID,
			}).Warn("Skipping undecodable stroke during replay")
			continue
		}
		payloads = append(payloads, p)
	}
	return payloads, nil
}

// Clear deletes every stroke for the room.
func (s *BoardService) Clear(ctx context.Context, roomCode string) error {
	return s.strokeRepo.DeleteByRoom(ctx, roomCode)
}
