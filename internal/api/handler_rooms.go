package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/model"
)

type roomRequest struct {
	Description string `json:"description" binding:"required,max=256"`
}

type roomResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

func toRoomResponse(r *model.Room) roomResponse {
	return roomResponse{ID: r.ID, Description: r.Description}
}

// ListRooms returns all rooms in id order.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.rooms.GetAll(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	resp := make([]roomResponse, len(rooms))
	for i := range rooms {
		resp[i] = toRoomResponse(&rooms[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetRoom returns a single room.
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	room, err := h.rooms.Get(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(room))
}

// CreateRoom adds a room.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	room := &model.Room{Description: req.Description}
	if err := h.rooms.Add(c.Request.Context(), room); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRoomResponse(room))
}

// UpdateRoom changes the description of a room.
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	room, err := h.rooms.Get(ctx, id)
	if err != nil {
		storeError(c, err)
		return
	}
	room.Description = req.Description
	if err := h.rooms.Edit(ctx, room); err != nil {
		storeError(c, conflictAsNotFound(err))
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(room))
}

// DeleteRoom removes a room. Bookings that used it keep existing without a
// room.
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.rooms.Remove(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
