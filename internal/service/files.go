package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/repository"
)

// ErrInvalidFileMeta rejects announcements missing the minimal shape.
var ErrInvalidFileMeta = errors.New("invalid file metadata")

// FileService relays file announcements and serves the fallback list
// read. Uploads themselves happen out-of-band; this layer only sees
// metadata.
type FileService struct {
	fileRepo repository.FileRepository
}

func NewFileService(fileRepo repository.FileRepository) *FileService {
	if fileRepo == nil {
		panic("FileRepository cannot be nil for FileService")
	}
	return &FileService{fileRepo: fileRepo}
}

// Prepare checks the minimal metadata shape (url, name, mime type) and
// attaches the server-resolved sharer identity and timestamp. The rest
// of the payload is passed through unchanged.
func (s *FileService) Prepare(raw []byte, sharer domain.Identity) (domain.FileAnnouncement, error) {
	var ann domain.FileAnnouncement
	if err := json.Unmarshal(raw, &ann); err != nil {
		return domain.FileAnnouncement{}, ErrInvalidFileMeta
	}
	if ann.URL == "" || ann.Name == "" || ann.MimeType == "" {
		return domain.FileAnnouncement{}, ErrInvalidFileMeta
	}
	ann.SharedBy = sharer
	ann.SharedAt = time.Now().UTC()
	return ann, nil
}

// Register stores metadata coming from the upload flow (REST path).
func (s *FileService) Register(ctx context.Context, roomCode string, ann domain.FileAnnouncement) error {
	record := &domain.FileRecord{
		RoomCode:     roomCode,
		FileID:       ann.FileID,
		URL:          ann.URL,
		Name:         ann.Name,
		MimeType:     ann.MimeType,
		Size:         ann.Size,
		SharedByID:   ann.SharedBy.ID,
		SharedByName: ann.SharedBy.Name,
		SharedAt:     ann.SharedAt,
	}
	return s.fileRepo.Save(ctx, record)
}

// List re-reads the room's stored metadata: the fallback path behind
// file_list_request.
func (s *FileService) List(ctx context.Context, roomCode string) ([]domain.FileAnnouncement, error) {
	records, err := s.fileRepo.ListByRoom(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	anns := make([]domain.FileAnnouncement, 0, len(records))
	for i := range records {
		anns = append(anns, records[i].Announcement())
	}
	return anns, nil
}
