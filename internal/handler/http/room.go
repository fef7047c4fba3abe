package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"collab-canvas/internal/domain"
	"collab-canvas/internal/middleware"
	"collab-canvas/internal/service"
)

// RoomHandler exposes room lifecycle over REST. Realtime membership
// checks read the rows these endpoints write.
type RoomHandler struct {
	roomSvc *service.RoomService
}

func NewRoomHandler(roomSvc *service.RoomService) *RoomHandler {
	if roomSvc == nil {
		panic("RoomService cannot be nil for RoomHandler")
	}
	return &RoomHandler{roomSvc: roomSvc}
}

type joinRoomRequest struct {
	Code string `json:"code" binding:"required"`
}

// Create handles POST /api/rooms.
func (h *RoomHandler) Create(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	room, err := h.roomSvc.CreateRoom(c.Request.Context(), identity.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":      room.Code,
		"hostId":    room.HostID,
		"isActive":  room.IsActive,
		"createdAt": room.CreatedAt,
	})
}

// Join handles POST /api/rooms/join.
func (h *RoomHandler) Join(c *gin.Context) {
	identity, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "room code is required")
		return
	}

	room, err := h.roomSvc.JoinByCode(c.Request.Context(), identity.ID, req.Code)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     room.Code,
		"hostId":   room.HostID,
		"isActive": room.IsActive,
	})
}

// Get handles GET /api/rooms/:code.
func (h *RoomHandler) Get(c *gin.Context) {
	if _, ok := callerIdentity(c); !ok {
		return
	}

	room, participants, err := h.roomSvc.GetRoom(c.Request.Context(), c.Param("code"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	members := make([]gin.H, 0, len(participants))
	for _, p := range participants {
		members = append(members, gin.H{
			"userId":   p.UserID,
			"role":     p.Role,
			"joinedAt": p.JoinedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"code":         room.Code,
		"hostId":       room.HostID,
		"isActive":     room.IsActive,
		"createdAt":    room.CreatedAt,
		"participants": members,
	})
}

// callerIdentity pulls the identity the auth middleware attached. A
// missing identity means the route was wired without the middleware.
func callerIdentity(c *gin.Context) (*domain.Identity, bool) {
	v, exists := c.Get(middleware.IdentityKey)
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	identity, ok := v.(*domain.Identity)
	if !ok || identity == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, false
	}
	return identity, true
}
