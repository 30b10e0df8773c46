package domain

import "time"

// Interval is a half-open window of instants: [Start, End).
// Touching endpoints do not overlap; a zero-length interval occupies
// no instant and therefore overlaps nothing.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) IsValid() bool {
	return i.End.After(i.Start)
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// DateRange is an inclusive range of calendar dates, the granularity
// memberships are booked at. Both endpoints are occupied.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) IsValid() bool {
	return !r.End.Before(r.Start)
}

func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

// DayOf truncates an instant to midnight UTC of its calendar date.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
