package domain

import "time"

// FileRecord mirrors metadata produced by the out-of-band upload flow.
// The realtime layer only relays and lists these; it never serves the
// bytes.
type FileRecord struct {
	ID           uint      `gorm:"primaryKey"`
	RoomCode     string    `gorm:"index;size:191;not null"`
	FileID       string    `gorm:"size:64;not null"`
	URL          string    `gorm:"size:512;not null"`
	Name         string    `gorm:"size:255;not null"`
	MimeType     string    `gorm:"size:100;not null"`
	Size         int64     `gorm:"not null"`
	SharedByID   uint      `gorm:"index"`
	SharedByName string    `gorm:"size:191"`
	SharedAt     time.Time `gorm:"autoCreateTime"`
}

// FileAnnouncement is the relayed wire shape, passed through unchanged
// apart from the server-resolved sharer identity and timestamp.
type FileAnnouncement struct {
	FileID   string    `json:"fileId"`
	URL      string    `json:"url"`
	Name     string    `json:"name"`
	MimeType string    `json:"mimeType"`
	Size     int64     `json:"size"`
	SharedBy Identity  `json:"sharedBy"`
	SharedAt time.Time `json:"sharedAt"`
}

// Announcement converts a stored record into the relayed shape.
func (f *FileRecord) Announcement() FileAnnouncement {
	return FileAnnouncement{
		FileID:   f.FileID,
		URL:      f.URL,
		Name:     f.Name,
		MimeType: f.MimeType,
		Size:     f.Size,
		SharedBy: Identity{ID: f.SharedByID, Name: f.SharedByName},
		SharedAt: f.SharedAt,
	}
}
