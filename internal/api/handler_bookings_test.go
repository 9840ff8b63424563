package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/metrics"
)

func TestCreateBooking(t *testing.T) {
	env := newTestEnv(t, 2)

	first := env.do(t, http.MethodPost, "/api/bookings", createBody(2, 4))
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	got := decode[bookingResponse](t, first)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, date(2), got.StartDate)
	assert.Equal(t, date(4), got.EndDate)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.RoomID)
	assert.Equal(t, int64(1), *got.RoomID)

	second := env.do(t, http.MethodPost, "/api/bookings", createBody(4, 6))
	require.Equal(t, http.StatusCreated, second.Code)
	got = decode[bookingResponse](t, second)
	require.NotNil(t, got.RoomID)
	assert.Equal(t, int64(2), *got.RoomID, "touching ranges conflict so room 2 is used")

	full := env.do(t, http.MethodPost, "/api/bookings", createBody(3, 5))
	require.Equal(t, http.StatusConflict, full.Code)
	form := decode[bookingForm](t, full)
	assert.Equal(t, booking.ErrNoRoomAvailable.Message, form.Status)
	require.NotNil(t, form.Booking)
	assert.Equal(t, date(3), form.Booking.StartDate)
	assert.Nil(t, form.Booking.RoomID)
	assert.Equal(t, []option{{ID: 1, Label: "Ada Lovelace"}}, form.Customers)
	assert.Empty(t, form.Rooms)

	all, err := env.bookings.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.BookingsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.BookingsRejected.WithLabelValues(metrics.ReasonNoRoom)))
}

func TestCreateBooking_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "start in the past",
			body:       createBody(-1, 2),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   booking.ErrInvalidRange.Message,
		},
		{
			name:       "start after end",
			body:       createBody(5, 2),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   booking.ErrInvalidRange.Message,
		},
		{
			name:       "stay longer than allowed",
			body:       gin.H{"start_date": date(0), "end_date": "9999-12-31", "customer_id": 1},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   booking.ErrStayTooLong.Message,
		},
		{
			name:       "unknown customer",
			body:       gin.H{"start_date": date(1), "end_date": date(2), "customer_id": 42},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   booking.ErrCustomerMissing.Message,
		},
		{
			name:       "missing start date",
			body:       gin.H{"end_date": date(2), "customer_id": 1},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `"start_date":"is required"`,
		},
		{
			name:       "malformed date",
			body:       gin.H{"start_date": "18/10/2026", "end_date": date(2), "customer_id": 1},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `"start_date":"must be a date formatted as 2006-01-02"`,
		},
		{
			name:       "malformed json",
			body:       `{"start_date":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid request"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, 1)

			w := env.do(t, http.MethodPost, "/api/bookings", tc.body)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)

			all, err := env.bookings.GetAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestListBookings(t *testing.T) {
	env := newTestEnv(t, 1)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/bookings", createBody(1, 2)).Code)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/bookings", createBody(5, 5)).Code)

	t.Run("defaults to the current year", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/bookings", nil)
		require.Equal(t, http.StatusOK, w.Code)

		got := decode[overviewResponse](t, w)
		assert.Len(t, got.Bookings, 2)
		assert.Equal(t, []string{date(1), date(2), date(5)}, got.FullyOccupiedDates)
		assert.Equal(t, 2026, got.YearToDisplay)
	})

	t.Run("clamps the requested year", func(t *testing.T) {
		got := decode[overviewResponse](t, env.do(t, http.MethodGet, "/api/bookings?year=2031", nil))
		assert.Equal(t, 2026, got.YearToDisplay)

		got = decode[overviewResponse](t, env.do(t, http.MethodGet, "/api/bookings?year=1999", nil))
		assert.Equal(t, 2026, got.YearToDisplay)
	})

	t.Run("rejects a year that is not a number", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/bookings?year=next", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListBookings_Empty(t *testing.T) {
	env := newTestEnv(t, 1)

	w := env.do(t, http.MethodGet, "/api/bookings?year=1850", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookings":[],"fully_occupied_dates":[],"year_to_display":1850}`, w.Body.String())
}

func TestGetBooking(t *testing.T) {
	env := newTestEnv(t, 1)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/bookings", createBody(1, 2)).Code)

	for _, path := range []string{"/api/bookings/1", "/api/bookings/1/delete"} {
		w := env.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, int64(1), decode[bookingResponse](t, w).ID)
	}

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/bookings/9", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/bookings/9/delete", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/bookings/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/bookings/0", nil).Code)
}

func TestBookingForms(t *testing.T) {
	env := newTestEnv(t, 2)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/bookings", createBody(1, 2)).Code)

	newForm := decode[bookingForm](t, env.do(t, http.MethodGet, "/api/bookings/new", nil))
	assert.Nil(t, newForm.Booking)
	assert.Equal(t, []option{{ID: 1, Label: "Ada Lovelace"}}, newForm.Customers)
	assert.Empty(t, newForm.Rooms)

	w := env.do(t, http.MethodGet, "/api/bookings/1/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	editForm := decode[bookingForm](t, w)
	require.NotNil(t, editForm.Booking)
	assert.Equal(t, int64(1), editForm.Booking.ID)
	assert.Equal(t, []option{{ID: 1, Label: "Double"}, {ID: 2, Label: "Double"}}, editForm.Rooms)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/bookings/7/edit", nil).Code)
}

func TestUpdateBooking(t *testing.T) {
	editBody := func(id int64, start, end int, active bool, roomID int64) gin.H {
		return gin.H{
			"id":          id,
			"start_date":  date(start),
			"end_date":    date(end),
			"is_active":   active,
			"customer_id": 1,
			"room_id":     roomID,
		}
	}

	setup := func(t *testing.T) *testEnv {
		env := newTestEnv(t, 2)
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/bookings", createBody(1, 3)).Code)
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/bookings", createBody(2, 4)).Code)
		return env
	}

	t.Run("moves dates and room", func(t *testing.T) {
		env := setup(t)

		w := env.do(t, http.MethodPut, "/api/bookings/2", editBody(2, 10, 12, true, 1))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		stored, err := env.bookings.Get(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, date(10), stored.StartDate.Format("2006-01-02"))
		assert.True(t, stored.HasRoom(1))
	})

	t.Run("deactivates without a room check", func(t *testing.T) {
		env := setup(t)

		w := env.do(t, http.MethodPut, "/api/bookings/2", editBody(2, 2, 4, false, 1))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.False(t, decode[bookingResponse](t, w).IsActive)
	})

	t.Run("room already taken", func(t *testing.T) {
		env := setup(t)

		w := env.do(t, http.MethodPut, "/api/bookings/2", editBody(2, 2, 4, true, 1))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		form := decode[bookingForm](t, w)
		assert.Equal(t, booking.ErrRoomUnavailable.Message, form.Status)
		assert.Len(t, form.Rooms, 2)

		stored, err := env.bookings.Get(context.Background(), 2)
		require.NoError(t, err)
		assert.True(t, stored.HasRoom(2))
	})

	t.Run("start after end", func(t *testing.T) {
		env := setup(t)

		w := env.do(t, http.MethodPut, "/api/bookings/2", editBody(2, 5, 4, true, 2))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, booking.ErrInvalidEditRange.Message, decode[bookingForm](t, w).Status)
	})

	t.Run("id mismatch", func(t *testing.T) {
		env := setup(t)
		w := env.do(t, http.MethodPut, "/api/bookings/1", editBody(2, 2, 4, true, 2))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown booking", func(t *testing.T) {
		env := setup(t)
		w := env.do(t, http.MethodPut, "/api/bookings/9", editBody(9, 2, 4, true, 2))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing id in body", func(t *testing.T) {
		env := setup(t)
		w := env.do(t, http.MethodPut, "/api/bookings/2", gin.H{"start_date": date(2), "end_date": date(4), "customer_id": 1})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"is required"`)
	})
}

func TestDeleteBooking(t *testing.T) {
	env := newTestEnv(t, 1)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/bookings", createBody(1, 2)).Code)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/bookings/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/bookings/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/bookings/1", nil).Code)

	// The freed room can be booked again.
	assert.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/bookings", createBody(1, 2)).Code)
}
