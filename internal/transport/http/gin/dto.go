package httpgin

import (
	"time"

	"github.com/kirinyoku/seatspot-go/internal/domain"
)

const dateLayout = "2006-01-02"

// CreateReservationRequest carries both booking shapes: ad-hoc bookings
// send an explicit RFC3339 window, memberships send a start date plus a
// duration in months.
type CreateReservationRequest struct {
	UserID   int64  `json:"user_id" binding:"required"`
	UserName string `json:"user_name" binding:"required"`
	SeatID   *int64 `json:"seat_id"`
	Category string `json:"category" binding:"required,oneof=fixed floating"`
	Kind     string `json:"kind" binding:"required,oneof=adhoc membership"`
	Slot     string `json:"slot" binding:"required,oneof=day night full"`

	// adhoc
	StartsAt string `json:"starts_at,omitempty"`
	EndsAt   string `json:"ends_at,omitempty"`

	// membership
	StartDate string `json:"start_date,omitempty"`
	Months    int    `json:"months,omitempty"`
}

type CreateReservationResponse struct {
	ReservationID string `json:"reservation_id"`
}

// ConflictResponse is the 409 payload when a requested seat is taken:
// the caller uses it to offer the waitlist or the next free date.
type ConflictResponse struct {
	Error             string `json:"error"`
	ConflictingEnd    string `json:"conflicting_end,omitempty"`
	NextAvailableDate string `json:"next_available_date,omitempty"`
}

type AvailabilityResponse struct {
	Available      bool    `json:"available"`
	ConflictingEnd *string `json:"conflicting_end,omitempty"`
	OccupantName   *string `json:"occupant_name,omitempty"`
}

type NextAvailableResponse struct {
	AvailableNow      bool    `json:"available_now"`
	NextAvailableDate *string `json:"next_available_date,omitempty"`
	ConflictingEnd    *string `json:"conflicting_end,omitempty"`
}

type EnqueueWaitlistRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Slot   string `json:"slot" binding:"required,oneof=day night full"`
}

type EnqueueWaitlistResponse struct {
	EntryID string `json:"entry_id"`
}

type WaitlistCountResponse struct {
	SeatID int64 `json:"seat_id"`
	Count  int   `json:"count"`
}

type ProvisionSeatsRequest struct {
	Numbers []int `json:"numbers" binding:"required,min=1,dive,gt=0"`
}

type ResyncResponse struct {
	SeatsWritten int64 `json:"seats_written"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ReservationResponse is the wire shape of a reservation; membership
// windows are additionally rendered as inclusive dates.
type ReservationResponse struct {
	ID            string  `json:"id"`
	SeatID        *int64  `json:"seat_id,omitempty"`
	UserID        int64   `json:"user_id"`
	UserName      string  `json:"user_name"`
	Category      string  `json:"category"`
	Kind          string  `json:"kind"`
	Slot          string  `json:"slot"`
	StartsAt      string  `json:"starts_at"`
	EndsAt        string  `json:"ends_at"`
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	CreatedAt     string  `json:"created_at"`
}

func toReservationResponse(r domain.Reservation) ReservationResponse {
	out := ReservationResponse{
		ID:            r.ID.String(),
		SeatID:        r.SeatID,
		UserID:        r.UserID,
		UserName:      r.UserName,
		Category:      string(r.Category),
		Kind:          string(r.Kind),
		Slot:          string(r.Slot),
		StartsAt:      r.StartsAt.Format(time.RFC3339),
		EndsAt:        r.EndsAt.Format(time.RFC3339),
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}

	if r.Kind == domain.KindMembership {
		dates := r.Dates()
		start := dates.Start.Format(dateLayout)
		end := dates.End.Format(dateLayout)
		out.StartDate = &start
		out.EndDate = &end
	}

	return out
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
