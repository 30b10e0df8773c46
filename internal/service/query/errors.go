package query

import "errors"

var (
	ErrSeatNotFound        = errors.New("seat not found")
	ErrReservationNotFound = errors.New("reservation not found")
)
