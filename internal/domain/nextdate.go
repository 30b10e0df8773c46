package domain

import "time"

// NextAvailability is the answer to "when can a membership of this
// length start on this seat". NextDate and ConflictEnd are set only
// when the seat is not available now.
type NextAvailability struct {
	AvailableNow bool
	NextDate     *time.Time
	ConflictEnd  *time.Time
}

// NextAvailableDate finds the first date a seat is free for a membership
// of the requested length. The candidate window is the inclusive date
// range [today, today + months]; membership reservations whose dates
// overlap it and whose slot conflicts with the requested one are
// considered, and the renter is deferred past the latest conflicting
// end date. A single latest end is authoritative: no start is possible
// before every conflicting membership has expired.
func NextAvailableDate(
	today time.Time,
	months int,
	slot Slot,
	memberships []Reservation,
) NextAvailability {
	day := DayOf(today)
	window := DateRange{Start: day, End: day.AddDate(0, months, 0)}

	var latest *time.Time
	for i := range memberships {
		m := memberships[i]
		if !m.IsActive() {
			continue
		}
		if !SlotsConflict(slot, m.Slot) {
			continue
		}
		if !window.Overlaps(m.Dates()) {
			continue
		}
		end := m.LastOccupiedDate()
		if latest == nil || end.After(*latest) {
			latest = &end
		}
	}

	if latest == nil {
		return NextAvailability{AvailableNow: true}
	}

	next := latest.AddDate(0, 0, 1)
	return NextAvailability{
		AvailableNow: false,
		NextDate:     &next,
		ConflictEnd:  latest,
	}
}
