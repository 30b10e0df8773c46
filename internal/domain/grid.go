package domain

import "time"

// SeatState is the aggregate status of one seat on the grid display.
type SeatState string

const (
	SeatAvailable  SeatState = "available"
	SeatOccupied   SeatState = "occupied"
	SeatWaitlisted SeatState = "waitlisted"
)

type SeatGridStatus struct {
	SeatID        int64     `json:"seat_id"`
	SeatNumber    int       `json:"seat_number"`
	State         SeatState `json:"state"`
	OccupantName  *string   `json:"occupant_name,omitempty"`
	WaitlistCount int       `json:"waitlist_count"`
}

// ComputeGridStatus paints the whole catalog in one pass: reservations
// and waitlist entries are indexed by seat once, then every seat is
// resolved against the full-day window of asOf. Occupied wins over
// waitlisted, waitlisted over available.
//
// Floating reservations carry no seat and never mark a seat occupied.
func ComputeGridStatus(
	seats []Seat,
	reservations []Reservation,
	entries []WaitlistEntry,
	asOf time.Time,
) map[int64]SeatGridStatus {
	bySeat := make(map[int64][]Reservation, len(seats))
	for _, r := range reservations {
		if r.SeatID == nil {
			continue
		}
		bySeat[*r.SeatID] = append(bySeat[*r.SeatID], r)
	}

	waiting := make(map[int64]int)
	for _, e := range entries {
		waiting[e.SeatID]++
	}

	day := DayOf(asOf)
	window := Interval{Start: day, End: day.AddDate(0, 0, 1)}

	out := make(map[int64]SeatGridStatus, len(seats))
	for _, seat := range seats {
		status := SeatGridStatus{
			SeatID:        seat.ID,
			SeatNumber:    seat.Number,
			State:         SeatAvailable,
			WaitlistCount: waiting[seat.ID],
		}

		// A full-slot probe over the whole day flags any occupancy,
		// whichever slot the occupant actually holds.
		verdict := CheckAvailability(window, SlotFull, bySeat[seat.ID])
		switch {
		case !verdict.Available:
			status.State = SeatOccupied
			name := verdict.Conflicting.UserName
			status.OccupantName = &name
		case status.WaitlistCount > 0:
			status.State = SeatWaitlisted
		}

		out[seat.ID] = status
	}

	return out
}
