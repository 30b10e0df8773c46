package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeGridStatus_AllAvailable(t *testing.T) {
	seats := []Seat{{ID: 1, Number: 1}, {ID: 2, Number: 2}}

	got := ComputeGridStatus(seats, nil, nil, date(2025, 1, 15))
	require.Len(t, got, 2)
	for _, s := range got {
		assert.Equal(t, SeatAvailable, s.State)
		assert.Nil(t, s.OccupantName)
		assert.Zero(t, s.WaitlistCount)
	}
}

func TestComputeGridStatus_Occupied(t *testing.T) {
	seats := []Seat{{ID: 1, Number: 1}, {ID: 2, Number: 2}}
	seat1 := int64(1)

	res := Reservation{
		SeatID:   &seat1,
		UserName: "Asha",
		Slot:     SlotDay,
		StartsAt: date(2025, 1, 1),
		EndsAt:   date(2025, 2, 1),
		Status:   StatusConfirmed,
	}

	got := ComputeGridStatus(seats, []Reservation{res}, nil, date(2025, 1, 15))

	require.Equal(t, SeatOccupied, got[1].State)
	require.NotNil(t, got[1].OccupantName)
	assert.Equal(t, "Asha", *got[1].OccupantName)

	assert.Equal(t, SeatAvailable, got[2].State)
}

func TestComputeGridStatus_OccupiedWinsOverWaitlisted(t *testing.T) {
	seats := []Seat{{ID: 1, Number: 1}}
	seat1 := int64(1)

	res := Reservation{
		SeatID:   &seat1,
		UserName: "Asha",
		Slot:     SlotFull,
		StartsAt: date(2025, 1, 1),
		EndsAt:   date(2025, 2, 1),
		Status:   StatusConfirmed,
	}
	entry := WaitlistEntry{ID: uuid.New(), SeatID: 1, UserID: 7, Slot: SlotFull}

	got := ComputeGridStatus(seats, []Reservation{res}, []WaitlistEntry{entry}, date(2025, 1, 15))

	assert.Equal(t, SeatOccupied, got[1].State)
	assert.Equal(t, 1, got[1].WaitlistCount)
}

func TestComputeGridStatus_Waitlisted(t *testing.T) {
	seats := []Seat{{ID: 1, Number: 1}}
	entries := []WaitlistEntry{
		{ID: uuid.New(), SeatID: 1, UserID: 7, Slot: SlotDay},
		{ID: uuid.New(), SeatID: 1, UserID: 8, Slot: SlotNight},
	}

	got := ComputeGridStatus(seats, nil, entries, date(2025, 1, 15))

	assert.Equal(t, SeatWaitlisted, got[1].State)
	assert.Equal(t, 2, got[1].WaitlistCount)
}

func TestComputeGridStatus_FloatingNeverOccupies(t *testing.T) {
	seats := []Seat{{ID: 1, Number: 1}}

	floating := Reservation{
		SeatID:   nil,
		Category: CategoryFloating,
		Slot:     SlotFull,
		StartsAt: date(2025, 1, 1),
		EndsAt:   date(2025, 2, 1),
		Status:   StatusConfirmed,
	}

	got := ComputeGridStatus(seats, []Reservation{floating}, nil, date(2025, 1, 15))
	assert.Equal(t, SeatAvailable, got[1].State)
}

func TestComputeGridStatus_ReservationOutsideDay(t *testing.T) {
	seats := []Seat{{ID: 1, Number: 1}}
	seat1 := int64(1)

	past := Reservation{
		SeatID:   &seat1,
		Slot:     SlotFull,
		StartsAt: date(2025, 1, 1),
		EndsAt:   date(2025, 1, 10),
		Status:   StatusConfirmed,
	}

	got := ComputeGridStatus(seats, []Reservation{past}, nil, date(2025, 1, 15))
	assert.Equal(t, SeatAvailable, got[1].State)
}
