package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"collab-canvas/internal/service"
)

// FileHandler records upload metadata and serves the room's file list.
type FileHandler struct {
	fileSvc *service.FileService
	roomSvc *service.RoomService
}

func NewFileHandler(fileSvc *service.FileService, roomSvc *service.RoomService) *FileHandler {
	if fileSvc == nil || roomSvc == nil {
		panic("FileService and RoomService cannot be nil for FileHandler")
	}
	return &FileHandler{fileSvc: fileSvc, roomSvc: roomSvc}
}

// Register handles POST /api/rooms/:code/files. The caller must be a
// recorded participant of an open room.
func (h *FileHandler) Register(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}
	code := c.Param("code")

	if _, _, err := h.roomSvc.Authorize(c.Request.Context(), code, identity.ID); err != nil {
		abortWithError(c, err)
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortBadRequest(c, "unreadable request body")
		return
	}
	ann, err := h.fileSvc.Prepare(raw, *identity)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.fileSvc.Register(c.Request.Context(), code, ann); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ann)
}

// List handles GET /api/rooms/:code/files.
func (h *FileHandler) List(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}
	code := c.Param("code")

	if _, _, err := h.roomSvc.Authorize(c.Request.Context(), code, identity.ID); err != nil {
		abortWithError(c, err)
		return
	}

	files, err := h.fileSvc.List(c.Request.Context(), code)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}
