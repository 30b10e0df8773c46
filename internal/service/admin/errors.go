package admin

import "errors"

var (
	ErrNoSeats = errors.New("no seat numbers provided")
)
