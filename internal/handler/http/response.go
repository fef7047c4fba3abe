// Package http holds the thin REST layer: accounts, rooms and file
// metadata. These are create/read wrappers over the stores; the
// realtime engine consumes their output, never the other way around.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"collab-canvas/internal/service"
)

// abortWithError maps service errors onto HTTP statuses with a uniform
// body shape.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrRegistrationFailed):
		status = http.StatusConflict
	case errors.Is(err, service.ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrRoomClosed):
		status = http.StatusGone
	case errors.Is(err, service.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidFileMeta):
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func abortBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
