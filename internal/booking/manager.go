package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hotel-booking-backend/internal/availability"
	"hotel-booking-backend/internal/metrics"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

// Year bounds used when there are no bookings to derive them from.
const (
	minYear = 1
	maxYear = 9999
)

// DefaultMaxStayDays is the longest booking, in days, a manager accepts
// unless WithMaxStay says otherwise.
const DefaultMaxStayDays = 3660

// Notifier is told about every booking that was allocated a room.
type Notifier interface {
	Dispatch(bookingID int64)
}

// Overview is everything the booking list shows.
type Overview struct {
	Bookings           []model.Booking
	FullyOccupiedDates []time.Time
	YearToDisplay      int
}

// Manager runs the booking workflows on top of the repositories.
type Manager struct {
	bookings  store.Repository[model.Booking]
	rooms     store.Repository[model.Room]
	customers store.Repository[model.Customer]

	notifier Notifier
	metrics  *metrics.Metrics
	location *time.Location
	now      func() time.Time
	maxStay  int
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier sends a confirmation for every created booking.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithMetrics records created and rejected bookings.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithLocation sets the timezone that decides the current calendar day.
func WithLocation(loc *time.Location) Option {
	return func(m *Manager) {
		if loc != nil {
			m.location = loc
		}
	}
}

// WithMaxStay caps the number of days, both ends included, a booking may
// span. Values below one keep the default.
func WithMaxStay(days int) Option {
	return func(m *Manager) {
		if days > 0 {
			m.maxStay = days
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a new booking manager.
func NewManager(
	bookings store.Repository[model.Booking],
	rooms store.Repository[model.Room],
	customers store.Repository[model.Customer],
	opts ...Option,
) *Manager {
	m := &Manager{
		bookings:  bookings,
		rooms:     rooms,
		customers: customers,
		location:  time.UTC,
		now:       time.Now,
		maxStay:   DefaultMaxStayDays,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Today returns the current calendar day in the manager's timezone.
func (m *Manager) Today() time.Time {
	return availability.Day(m.now().In(m.location))
}

// CreateBooking allocates the first free room to b, activates it and stores
// it. Nothing is stored when a *ValidationError is returned.
func (m *Manager) CreateBooking(ctx context.Context, b *model.Booking) error {
	b.StartDate = availability.Day(b.StartDate)
	b.EndDate = availability.Day(b.EndDate)

	if b.StartDate.Before(m.Today()) || b.StartDate.After(b.EndDate) {
		return m.reject(ErrInvalidRange)
	}
	if m.tooLong(b) {
		return m.reject(ErrStayTooLong)
	}

	if _, err := m.customers.Get(ctx, b.CustomerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return m.reject(ErrCustomerMissing)
		}
		return fmt.Errorf("failed to load customer %d: %w", b.CustomerID, err)
	}

	roomID, ok, err := m.FindAvailableRoom(ctx, b.StartDate, b.EndDate)
	if err != nil {
		return err
	}
	if !ok {
		return m.reject(ErrNoRoomAvailable)
	}

	b.ID = 0
	b.RoomID = &roomID
	b.IsActive = true
	if err := m.bookings.Add(ctx, b); err != nil {
		return fmt.Errorf("failed to store booking: %w", err)
	}

	log.Printf("Booking %d created for customer %d in room %d (%s to %s)",
		b.ID, b.CustomerID, roomID, b.StartDate.Format(time.DateOnly), b.EndDate.Format(time.DateOnly))
	m.metrics.BookingCreated()
	if m.notifier != nil {
		m.notifier.Dispatch(b.ID)
	}
	return nil
}

// FindAvailableRoom returns the first room, by ascending id, without an
// active booking overlapping [start, end].
func (m *Manager) FindAvailableRoom(ctx context.Context, start, end time.Time) (int64, bool, error) {
	rooms, err := m.rooms.GetAll(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to list rooms: %w", err)
	}
	bookings, err := m.bookings.GetAll(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to list bookings: %w", err)
	}
	roomID, ok := availability.FindAvailableRoom(rooms, bookings, start, end)
	return roomID, ok, nil
}

// GetFullyOccupiedDates returns the days in [start, end] on which active
// bookings cover every room.
func (m *Manager) GetFullyOccupiedDates(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	rooms, err := m.rooms.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	bookings, err := m.bookings.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return availability.FullyOccupiedDates(bookings, len(rooms), start, end), nil
}

// Overview lists all bookings together with the fully occupied days between
// the earliest start and the latest end of any booking. year selects the
// calendar year to display: nil means the current year, anything else is
// clamped to the years the bookings span.
func (m *Manager) Overview(ctx context.Context, year *int) (*Overview, error) {
	bookings, err := m.bookings.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	rooms, err := m.rooms.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	first, last := minYear, maxYear
	var occupied []time.Time
	if minDate, maxDate, ok := availability.ScanWindow(bookings); ok {
		first, last = minDate.Year(), maxDate.Year()
		// Without rooms every day of the window is occupied; list at most
		// one maximum stay of them.
		if limit := minDate.AddDate(0, 0, m.maxStay-1); len(rooms) == 0 && maxDate.After(limit) {
			maxDate = limit
		}
		occupied = availability.FullyOccupiedDates(bookings, len(rooms), minDate, maxDate)
	}

	display := m.Today().Year()
	if year != nil {
		switch {
		case *year < first:
			display = first
		case *year > last:
			display = last
		default:
			display = *year
		}
	}

	return &Overview{
		Bookings:           bookings,
		FullyOccupiedDates: occupied,
		YearToDisplay:      display,
	}, nil
}

// GetBooking returns the booking with the given id or store.ErrNotFound.
func (m *Manager) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	return m.bookings.Get(ctx, id)
}

// EditBooking replaces the stored booking id with b. An active booking that
// is assigned a room must not overlap any other active booking on that room.
// A booking deleted while being edited is reported as store.ErrNotFound.
func (m *Manager) EditBooking(ctx context.Context, id int64, b *model.Booking) error {
	if id != b.ID {
		return store.ErrNotFound
	}

	existing, err := m.bookings.Get(ctx, id)
	if err != nil {
		return err
	}

	b.StartDate = availability.Day(b.StartDate)
	b.EndDate = availability.Day(b.EndDate)
	if b.StartDate.After(b.EndDate) {
		return m.reject(ErrInvalidEditRange)
	}
	if m.tooLong(b) {
		return m.reject(ErrStayTooLong)
	}

	if _, err := m.customers.Get(ctx, b.CustomerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return m.reject(ErrCustomerMissing)
		}
		return fmt.Errorf("failed to load customer %d: %w", b.CustomerID, err)
	}

	if b.RoomID != nil {
		if _, err := m.rooms.Get(ctx, *b.RoomID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return m.reject(ErrRoomMissing)
			}
			return fmt.Errorf("failed to load room %d: %w", *b.RoomID, err)
		}

		if b.IsActive {
			bookings, err := m.bookings.GetAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to list bookings: %w", err)
			}
			if !availability.RoomIsFree(*b.RoomID, bookings, b.StartDate, b.EndDate, b.ID) {
				return m.reject(ErrRoomUnavailable)
			}
		}
	}

	b.CreatedAt = existing.CreatedAt
	err = m.bookings.Edit(ctx, b)
	if errors.Is(err, store.ErrConflict) {
		if _, getErr := m.bookings.Get(ctx, b.ID); errors.Is(getErr, store.ErrNotFound) {
			return store.ErrNotFound
		}
		return err
	}
	return err
}

// DeleteBooking removes the booking for good.
func (m *Manager) DeleteBooking(ctx context.Context, id int64) error {
	if err := m.bookings.Remove(ctx, id); err != nil {
		return err
	}
	log.Printf("Booking %d deleted", id)
	return nil
}

// ListCustomers lists the customers a booking can be made for.
func (m *Manager) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return m.customers.GetAll(ctx)
}

// ListRooms lists the rooms a booking can be moved to.
func (m *Manager) ListRooms(ctx context.Context) ([]model.Room, error) {
	return m.rooms.GetAll(ctx)
}

// tooLong reports whether b spans more days than the maximum stay.
func (m *Manager) tooLong(b *model.Booking) bool {
	return b.EndDate.After(b.StartDate.AddDate(0, 0, m.maxStay-1))
}

func (m *Manager) reject(err *ValidationError) error {
	m.metrics.BookingRejected(err.Reason)
	return err
}
