package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxOccupancyDays bounds the window a single occupancy query may scan.
const maxOccupancyDays = 3660

type rangeQuery struct {
	Start string `form:"start" binding:"required,datetime=2006-01-02"`
	End   string `form:"end" binding:"required,datetime=2006-01-02"`
}

// GetAvailability reports the room a booking over [start, end] would get.
func (h *Handler) GetAvailability(c *gin.Context) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	start, end, err := parseRange(q.Start, q.End)
	if err != nil {
		badRequest(c, err)
		return
	}
	if start.After(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must not be after end"})
		return
	}

	roomID, ok, err := h.bookings.FindAvailableRoom(c.Request.Context(), start, end)
	if err != nil {
		internalError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "room_id": roomID})
}

// GetOccupancy lists the days in [start, end] on which every room is taken.
func (h *Handler) GetOccupancy(c *gin.Context) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	start, end, err := parseRange(q.Start, q.End)
	if err != nil {
		badRequest(c, err)
		return
	}
	if start.After(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must not be after end"})
		return
	}
	if end.Sub(start).Hours()/24 > maxOccupancyDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range is too long"})
		return
	}

	dates, err := h.bookings.GetFullyOccupiedDates(c.Request.Context(), start, end)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fully_occupied_dates": formatDates(dates)})
}
