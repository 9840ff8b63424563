package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

type createBookingRequest struct {
	StartDate  string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" binding:"required,datetime=2006-01-02"`
	CustomerID int64  `json:"customer_id" binding:"required,gt=0"`
}

type editBookingRequest struct {
	ID         int64  `json:"id" binding:"required,gt=0"`
	StartDate  string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" binding:"required,datetime=2006-01-02"`
	IsActive   bool   `json:"is_active"`
	CustomerID int64  `json:"customer_id" binding:"required,gt=0"`
	RoomID     *int64 `json:"room_id" binding:"omitempty,gt=0"`
}

type bookingResponse struct {
	ID         int64     `json:"id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	IsActive   bool      `json:"is_active"`
	CustomerID int64     `json:"customer_id"`
	RoomID     *int64    `json:"room_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type option struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// bookingForm is what the create and edit forms are rendered from. Status
// carries the message of a rejected submission.
type bookingForm struct {
	Booking   *bookingResponse `json:"booking,omitempty"`
	Customers []option         `json:"customers"`
	Rooms     []option         `json:"rooms,omitempty"`
	Status    string           `json:"status,omitempty"`
}

type overviewResponse struct {
	Bookings           []bookingResponse `json:"bookings"`
	FullyOccupiedDates []string          `json:"fully_occupied_dates"`
	YearToDisplay      int               `json:"year_to_display"`
}

func toBookingResponse(b *model.Booking) *bookingResponse {
	return &bookingResponse{
		ID:         b.ID,
		StartDate:  b.StartDate.Format(time.DateOnly),
		EndDate:    b.EndDate.Format(time.DateOnly),
		IsActive:   b.IsActive,
		CustomerID: b.CustomerID,
		RoomID:     b.RoomID,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(time.DateOnly)
	}
	return out
}

// parseRange parses two dates already checked by the datetime binding.
func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}

// newForm loads the select lists of the booking form. Rooms are only listed
// on the edit form since creation allocates the room itself.
func (h *Handler) newForm(c *gin.Context, withRooms bool) (*bookingForm, error) {
	ctx := c.Request.Context()
	customers, err := h.bookings.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	form := &bookingForm{Customers: make([]option, len(customers))}
	for i, cu := range customers {
		form.Customers[i] = option{ID: cu.ID, Label: cu.Name}
	}

	if withRooms {
		rooms, err := h.bookings.ListRooms(ctx)
		if err != nil {
			return nil, err
		}
		form.Rooms = make([]option, len(rooms))
		for i, r := range rooms {
			form.Rooms[i] = option{ID: r.ID, Label: r.Description}
		}
	}
	return form, nil
}

// rejectForm re-renders the form for a rejected submission.
func (h *Handler) rejectForm(c *gin.Context, b *model.Booking, withRooms bool, verr *booking.ValidationError) {
	form, err := h.newForm(c, withRooms)
	if err != nil {
		internalError(c, err)
		return
	}
	form.Booking = toBookingResponse(b)
	form.Status = verr.Message

	status := http.StatusUnprocessableEntity
	if errors.Is(verr, booking.ErrNoRoomAvailable) {
		status = http.StatusConflict
	}
	c.JSON(status, form)
}

// ListBookings returns every booking, the fully occupied days and the year
// the calendar should open on.
func (h *Handler) ListBookings(c *gin.Context) {
	var year *int
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
			return
		}
		year = &y
	}

	overview, err := h.bookings.Overview(c.Request.Context(), year)
	if err != nil {
		internalError(c, err)
		return
	}

	resp := overviewResponse{
		Bookings:           make([]bookingResponse, len(overview.Bookings)),
		FullyOccupiedDates: formatDates(overview.FullyOccupiedDates),
		YearToDisplay:      overview.YearToDisplay,
	}
	for i := range overview.Bookings {
		resp.Bookings[i] = *toBookingResponse(&overview.Bookings[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetBooking returns a single booking. It also backs the delete confirmation.
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.bookings.GetBooking(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b))
}

// NewBookingForm returns the data the create form needs.
func (h *Handler) NewBookingForm(c *gin.Context) {
	form, err := h.newForm(c, false)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// CreateBooking books the first free room for the submitted dates.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		badRequest(c, err)
		return
	}

	b := &model.Booking{StartDate: start, EndDate: end, CustomerID: req.CustomerID}
	err = h.bookings.CreateBooking(c.Request.Context(), b)
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		h.rejectForm(c, b, false, verr)
	case err != nil:
		internalError(c, err)
	default:
		c.JSON(http.StatusCreated, toBookingResponse(b))
	}
}

// EditBookingForm returns a booking together with the select lists of the
// edit form.
func (h *Handler) EditBookingForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.bookings.GetBooking(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	form, err := h.newForm(c, true)
	if err != nil {
		internalError(c, err)
		return
	}
	form.Booking = toBookingResponse(b)
	c.JSON(http.StatusOK, form)
}

// UpdateBooking replaces the dates, room, customer and active flag of a
// booking.
func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req editBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		badRequest(c, err)
		return
	}

	b := &model.Booking{
		ID:         req.ID,
		StartDate:  start,
		EndDate:    end,
		IsActive:   req.IsActive,
		CustomerID: req.CustomerID,
		RoomID:     req.RoomID,
	}
	err = h.bookings.EditBooking(c.Request.Context(), id, b)
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		h.rejectForm(c, b, true, verr)
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case err != nil:
		internalError(c, err)
	default:
		c.JSON(http.StatusOK, toBookingResponse(b))
	}
}

// DeleteBooking removes a booking for good.
func (h *Handler) DeleteBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.bookings.DeleteBooking(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
