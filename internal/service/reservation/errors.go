package reservation

import "errors"

var (
	ErrSeatUnavailable     = errors.New("seat unavailable for the requested window")
	ErrSeatNotFound        = errors.New("seat not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidTransition   = errors.New("reservation is not in a state allowing this transition")
	ErrReservationConflict = errors.New("conflict creating reservation")
)
