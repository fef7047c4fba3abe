package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Tools accepted in a stroke envelope.
const (
	ToolPen     = "pen"
	ToolEraser  = "eraser"
	ToolLine    = "line"
	ToolRect    = "rect"
	ToolEllipse = "ellipse"
	ToolText    = "text"
)

// Stroke envelope limits.
const (
	MaxStrokePoints  = 5000
	MaxStrokeTextLen = 1000
)

// Point is one coordinate of a stroke path.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one persisted drawing or erasing action. The point list is
// stored as a JSON text column; rows are append-only and replayed in
// creation order.
type Stroke struct {
	ID        uint      `gorm:"primaryKey"`
	RoomCode  string    `gorm:"index:idx_room_created;size:191;not null"`
	StrokeID  string    `gorm:"size:64;not null"`
	Tool      string    `gorm:"size:20;not null"`
	Color     string    `gorm:"size:32;not null"`
	Size      float64   `gorm:"not null"`
	Points    string    `gorm:"type:text;not null"`
	Text      string    `gorm:"type:text"`
	AuthorID  uint      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_room_created"`
}

// StrokePayload is the sanitized wire shape broadcast to peers and
// replayed to late joiners. Only canonical fields survive sanitization.
type StrokePayload struct {
	ID        string    `json:"id"`
	Tool      string    `json:"tool"`
	Color     string    `json:"color"`
	Size      float64   `json:"size"`
	Points    []Point   `json:"points"`
	Text      string    `json:"text,omitempty"`
	AuthorID  uint      `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewStroke builds a persistable record from a sanitized payload.
func NewStroke(roomCode string, p StrokePayload) (*Stroke, error) {
	s := &Stroke{
		RoomCode: roomCode,
		StrokeID: p.ID,
		Tool:     p.Tool,
		Color:    p.Color,
		Size:     p.Size,
		Text:     p.Text,
		AuthorID: p.AuthorID,
	}
	if !p.CreatedAt.IsZero() {
		s.CreatedAt = p.CreatedAt
	}
	if err := s.SetPoints(p.Points); err != nil {
		return nil, err
	}
	return s, nil
}

// SetPoints serializes the point list into the Points column.
func (s *Stroke) SetPoints(pts []Point) error {
	raw, err := json.Marshal(pts)
	if err != nil {
		return fmt.Errorf("marshal stroke points: %w", err)
	}
	s.Points = string(raw)
	return nil
}

// ParsePoints decodes the Points column back into a point list.
func (s *Stroke) ParsePoints() ([]Point, error) {
	var pts []Point
	if s.Points == "" {
		return nil, fmt.Errorf("stroke %s has no point data", s.StrokeID)
	}
	if err := json.Unmarshal([]byte(s.Points), &pts); err != nil {
		return nil, fmt.Errorf("unmarshal stroke points: %w", err)
	}
	return pts, nil
}

// Payload reconstructs the wire shape for replay.
func (s *Stroke) Payload() (StrokePayload, error) {
	pts, err := s.ParsePoints()
	if err != nil {
		return StrokePayload{}, err
	}
	return StrokePayload{
		ID:        s.StrokeID,
		Tool:      s.Tool,
		Color:     s.Color,
		Size:      s.Size,
		Points:    pts,
		Text:      s.Text,
		AuthorID:  s.AuthorID,
		CreatedAt: s.CreatedAt,
	}, nil
}
