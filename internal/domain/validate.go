package domain

import "errors"

// Membership durations are sold in whole months, one to twelve.
const (
	MinMembershipMonths = 1
	MaxMembershipMonths = 12
)

var (
	ErrInvalidInterval  = errors.New("interval end must be after start")
	ErrInvalidDuration  = errors.New("membership duration out of range")
	ErrUnknownSlot      = errors.New("unknown slot")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownKind      = errors.New("unknown reservation kind")
	ErrFloatingWithSeat = errors.New("floating reservation must not be bound to a seat")
	ErrFixedWithoutSeat = errors.New("fixed reservation must be bound to a seat")
)

func ValidateInterval(iv Interval) error {
	if !iv.IsValid() {
		return ErrInvalidInterval
	}
	return nil
}

func ValidateMonths(months int) error {
	if months < MinMembershipMonths || months > MaxMembershipMonths {
		return ErrInvalidDuration
	}
	return nil
}

// Validate checks the structural invariants of a reservation before any
// conflict logic runs: known enums, a well-formed window, and the
// category/seat pairing (a floating reservation has no seat, a fixed
// one always has).
func (r Reservation) Validate() error {
	if !r.Slot.Valid() {
		return ErrUnknownSlot
	}
	if !r.Category.Valid() {
		return ErrUnknownCategory
	}
	if !r.Kind.Valid() {
		return ErrUnknownKind
	}
	if err := ValidateInterval(r.Interval()); err != nil {
		return err
	}
	switch r.Category {
	case CategoryFloating:
		if r.SeatID != nil {
			return ErrFloatingWithSeat
		}
	case CategoryFixed:
		if r.SeatID == nil {
			return ErrFixedWithoutSeat
		}
	}
	return nil
}
