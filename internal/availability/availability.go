// Package availability decides which room a date range can be booked into
// and which days have every room taken. It works on in-memory slices only.
package availability

import (
	"slices"
	"time"

	"hotel-booking-backend/internal/model"
)

// Day truncates t to the start of its calendar day in UTC. Only the year,
// month and day of t in its own location are kept.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the inclusive ranges [aStart, aEnd] and
// [bStart, bEnd] share at least one day. Ranges that touch on a boundary
// day overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	before := aStart.Before(bStart) && aEnd.Before(bStart)
	after := aStart.After(bEnd) && aEnd.After(bEnd)
	return !before && !after
}

// RoomIsFree reports whether no active booking on roomID overlaps
// [start, end]. The booking with id excludeID is ignored, so an edited
// booking does not collide with its own stored version.
func RoomIsFree(roomID int64, bookings []model.Booking, start, end time.Time, excludeID int64) bool {
	start, end = Day(start), Day(end)
	for i := range bookings {
		b := &bookings[i]
		if !b.IsActive || !b.HasRoom(roomID) {
			continue
		}
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if Overlaps(start, end, Day(b.StartDate), Day(b.EndDate)) {
			return false
		}
	}
	return true
}

// FindAvailableRoom returns the first room, in the order given, that has no
// active booking overlapping [start, end].
func FindAvailableRoom(rooms []model.Room, bookings []model.Booking, start, end time.Time) (int64, bool) {
	for _, room := range rooms {
		if RoomIsFree(room.ID, bookings, start, end, 0) {
			return room.ID, true
		}
	}
	return 0, false
}

// FullyOccupiedDates returns, in ascending order, every day in [start, end]
// covered by at least roomCount active bookings. With roomCount zero every
// day in the window qualifies.
//
// Only the days on which a booking starts or ends are visited, so a wide
// window with few bookings costs no more than a narrow one.
func FullyOccupiedDates(bookings []model.Booking, roomCount int, start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)

	if roomCount <= 0 {
		var dates []time.Time
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
		return dates
	}

	// delta holds the change in active bookings at each boundary day.
	delta := make(map[time.Time]int)
	for i := range bookings {
		b := &bookings[i]
		if !b.IsActive {
			continue
		}
		from, to := Day(b.StartDate), Day(b.EndDate)
		if from.Before(start) {
			from = start
		}
		if to.After(end) {
			to = end
		}
		if from.After(to) {
			continue
		}
		delta[from]++
		delta[to.AddDate(0, 0, 1)]--
	}

	boundaries := make([]time.Time, 0, len(delta))
	for d := range delta {
		boundaries = append(boundaries, d)
	}
	slices.SortFunc(boundaries, func(a, b time.Time) int { return a.Compare(b) })

	var dates []time.Time
	count := 0
	for i, d := range boundaries {
		count += delta[d]
		if count < roomCount || i+1 == len(boundaries) {
			continue
		}
		for day := d; day.Before(boundaries[i+1]); day = day.AddDate(0, 0, 1) {
			dates = append(dates, day)
		}
	}
	return dates
}

// ScanWindow returns the earliest start date and the latest end date across
// all bookings, active or not. ok is false when there are no bookings.
func ScanWindow(bookings []model.Booking) (minDate, maxDate time.Time, ok bool) {
	for i, b := range bookings {
		start, end := Day(b.StartDate), Day(b.EndDate)
		if i == 0 || start.Before(minDate) {
			minDate = start
		}
		if i == 0 || end.After(maxDate) {
			maxDate = end
		}
	}
	return minDate, maxDate, len(bookings) > 0
}
