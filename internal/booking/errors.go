package booking

import "hotel-booking-backend/internal/metrics"

// ValidationError is a rejected booking submission. Message is meant to be
// shown to the user next to the submitted form.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrInvalidRange = &ValidationError{
		Reason:  metrics.ReasonInvalidRange,
		Message: "The start date cannot be in the past or later than the end date.",
	}
	ErrInvalidEditRange = &ValidationError{
		Reason:  metrics.ReasonInvalidRange,
		Message: "The start date cannot be later than the end date.",
	}
	ErrStayTooLong = &ValidationError{
		Reason:  metrics.ReasonInvalidRange,
		Message: "The booking is longer than the maximum stay allowed.",
	}
	ErrCustomerMissing = &ValidationError{
		Reason:  metrics.ReasonMissingCustomer,
		Message: "The selected customer does not exist.",
	}
	ErrRoomMissing = &ValidationError{
		Reason:  metrics.ReasonRoomTaken,
		Message: "The selected room does not exist.",
	}
	ErrRoomUnavailable = &ValidationError{
		Reason:  metrics.ReasonRoomTaken,
		Message: "The selected room is already booked in the given period.",
	}
	ErrNoRoomAvailable = &ValidationError{
		Reason:  metrics.ReasonNoRoom,
		Message: "The booking could not be created. There were no available room.",
	}
)
