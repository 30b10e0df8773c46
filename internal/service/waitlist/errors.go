package waitlist

import "errors"

var (
	ErrSeatNotFound  = errors.New("seat not found")
	ErrEntryNotFound = errors.New("waitlist entry not found")
)
