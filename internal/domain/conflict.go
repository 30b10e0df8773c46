package domain

// SlotsConflict implements the slot compatibility matrix: full excludes
// everything, day and night exclude themselves but not each other.
func SlotsConflict(a, b Slot) bool {
	if a == SlotFull || b == SlotFull {
		return true
	}
	return a == b
}

// ReservationsConflict reports whether two reservations on the same seat
// cannot coexist: their occupied windows overlap and their slots are
// mutually exclusive.
func ReservationsConflict(a, b Reservation) bool {
	return a.Interval().Overlaps(b.Interval()) && SlotsConflict(a.Slot, b.Slot)
}

// Availability is the verdict of a conflict check. Conflicting is set
// only when Available is false.
type Availability struct {
	Available   bool
	Conflicting *Reservation
}

// CheckAvailability scans the active reservations of one seat and
// decides whether the candidate window/slot can be granted. It is a
// pure function of its inputs: same reservation set and candidate
// always yield the same verdict. Rows that are not pending or
// confirmed never conflict, whatever the caller passed in.
func CheckAvailability(candidate Interval, slot Slot, active []Reservation) Availability {
	probe := Reservation{
		Slot:     slot,
		StartsAt: candidate.Start,
		EndsAt:   candidate.End,
	}

	for i := range active {
		if !active[i].IsActive() {
			continue
		}
		if ReservationsConflict(probe, active[i]) {
			return Availability{Available: false, Conflicting: &active[i]}
		}
	}

	return Availability{Available: true}
}
