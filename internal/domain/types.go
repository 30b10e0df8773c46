package domain

import (
	"time"

	"github.com/google/uuid"
)

// Slot is the sub-daily occupancy discriminator of a reservation.
type Slot string

const (
	SlotDay   Slot = "day"
	SlotNight Slot = "night"
	SlotFull  Slot = "full"
)

func (s Slot) Valid() bool {
	switch s {
	case SlotDay, SlotNight, SlotFull:
		return true
	}
	return false
}

// Category says whether a reservation is bound to one physical seat
// or floats across the whole catalog.
type Category string

const (
	CategoryFixed    Category = "fixed"
	CategoryFloating Category = "floating"
)

func (c Category) Valid() bool {
	return c == CategoryFixed || c == CategoryFloating
}

// Kind distinguishes short hour-level bookings from month-level memberships.
type Kind string

const (
	KindAdhoc      Kind = "adhoc"
	KindMembership Kind = "membership"
)

func (k Kind) Valid() bool {
	return k == KindAdhoc || k == KindMembership
}

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusTimedOut  ReservationStatus = "timed_out"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentTimedOut PaymentStatus = "timed_out"
)

type Seat struct {
	ID     int64
	Number int
}

// Reservation is a claim on a seat (or on the floating pool) for an
// occupied window. The window is half-open: [StartsAt, EndsAt).
// Membership rows are day-granular; their EndsAt is midnight of the day
// after the last occupied date.
type Reservation struct {
	ID            uuid.UUID
	SeatID        *int64
	UserID        int64
	UserName      string
	Category      Category
	Kind          Kind
	Slot          Slot
	StartsAt      time.Time
	EndsAt        time.Time
	Status        ReservationStatus
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CancelledAt   *time.Time
}

// IsActive reports whether the reservation still occupies its seat.
// A pending reservation whose payment has not timed out yet is a soft
// hold and counts as occupying.
func (r Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

func (r Reservation) Interval() Interval {
	return Interval{Start: r.StartsAt, End: r.EndsAt}
}

// Dates returns the inclusive date range the reservation occupies.
func (r Reservation) Dates() DateRange {
	return DateRange{
		Start: DayOf(r.StartsAt),
		End:   DayOf(r.EndsAt.Add(-time.Nanosecond)),
	}
}

// LastOccupiedDate is the inclusive end date, the value surfaced to
// callers as "conflicting reservation end".
func (r Reservation) LastOccupiedDate() time.Time {
	return r.Dates().End
}

type WaitlistEntry struct {
	ID        uuid.UUID
	SeatID    int64
	UserID    int64
	Slot      Slot
	CreatedAt time.Time
}
